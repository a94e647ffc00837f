package dtos

// ImpressionQueueObject struct mapping an impression as stored in a shared queue
type ImpressionQueueObject struct {
	Metadata   QueueStoredMachineMetadataDTO `json:"m"`
	Impression Impression                    `json:"i"`
}

// QueueStoredEventDTO maps an event as stored in a shared queue
type QueueStoredEventDTO struct {
	Metadata QueueStoredMachineMetadataDTO `json:"m"`
	Event    EventDTO                      `json:"e"`
}

// QueueStoredUniqueKeysDTO maps the unique keys of a feature as stored in a shared queue
type QueueStoredUniqueKeysDTO struct {
	Metadata QueueStoredMachineMetadataDTO `json:"m"`
	Key      Key                           `json:"k"`
}
