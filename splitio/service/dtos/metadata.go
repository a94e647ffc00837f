package dtos

// Metadata holds the identity of the running sdk instance
type Metadata struct {
	SDKVersion  string
	MachineIP   string
	MachineName string
}

// QueueStoredMachineMetadataDTO maps sdk version, machine IP and machine name
type QueueStoredMachineMetadataDTO struct {
	SDKVersion  string `json:"s"`
	MachineIP   string `json:"i"`
	MachineName string `json:"n"`
}

// ToQueueStored returns the metadata in the shape used by shared queues
func (m Metadata) ToQueueStored() QueueStoredMachineMetadataDTO {
	return QueueStoredMachineMetadataDTO{
		SDKVersion:  m.SDKVersion,
		MachineIP:   m.MachineIP,
		MachineName: m.MachineName,
	}
}
