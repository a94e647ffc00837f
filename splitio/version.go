package splitio

// Version contains a string with the split sdk runtime version
const Version = "1.0.0"
