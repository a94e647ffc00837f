// Package grammar contains the immutable building blocks a flag definition is made of
package grammar

// Partition maps a slice of the 1-100 bucket range to a treatment
type Partition struct {
	treatment string
	size      int
}

// NewPartition builds a partition covering size percent of the buckets
func NewPartition(treatment string, size int) Partition {
	return Partition{treatment: treatment, size: size}
}

// Treatment returns the treatment assigned to this partition
func (p Partition) Treatment() string {
	return p.treatment
}

// Size returns the percentage of buckets covered by this partition
func (p Partition) Size() int {
	return p.size
}

// CoversAll returns true if the partition list is a single partition covering every bucket
func CoversAll(partitions []Partition) bool {
	return len(partitions) == 1 && partitions[0].size == 100
}

// CalculateTreatment walks the partitions accumulating their sizes and returns the treatment
// of the first one whose cumulative coverage reaches the bucket.
func CalculateTreatment(bucket int, partitions []Partition) (string, bool) {
	accum := 0
	for _, partition := range partitions {
		accum += partition.size
		if bucket <= accum {
			return partition.treatment, true
		}
	}
	return "", false
}
