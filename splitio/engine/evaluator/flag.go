package evaluator

import (
	"sync"

	"github.com/splitio/go-sdk-runtime/splitio/engine/grammar"
)

// FlagDefinition holds the already-selected rollout of a feature flag
type FlagDefinition struct {
	Name                  string
	Seed                  int64
	ChangeNumber          int64
	Killed                bool
	DefaultTreatment      string
	TrafficAllocation     int
	TrafficAllocationSeed int64
	Partitions            []grammar.Partition
}

// StaticFlagProvider is a FlagProvider backed by a fixed map of definitions, replaceable as a whole
type StaticFlagProvider struct {
	mutex *sync.RWMutex
	flags map[string]*FlagDefinition
}

// NewStaticFlagProvider builds a provider holding the supplied definitions. A zero traffic allocation is read as 100.
func NewStaticFlagProvider(flags []FlagDefinition) *StaticFlagProvider {
	p := &StaticFlagProvider{mutex: &sync.RWMutex{}}
	p.Replace(flags)
	return p
}

// Flag returns the definition for the requested name, or nil
func (p *StaticFlagProvider) Flag(name string) *FlagDefinition {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.flags[name]
}

// Names returns the names of the definitions currently held
func (p *StaticFlagProvider) Names() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	names := make([]string, 0, len(p.flags))
	for name := range p.flags {
		names = append(names, name)
	}
	return names
}

// Replace swaps every held definition for the supplied ones
func (p *StaticFlagProvider) Replace(flags []FlagDefinition) {
	byName := make(map[string]*FlagDefinition, len(flags))
	for idx := range flags {
		flag := flags[idx]
		if flag.TrafficAllocation == 0 {
			flag.TrafficAllocation = 100
		}
		byName[flag.Name] = &flag
	}

	p.mutex.Lock()
	p.flags = byName
	p.mutex.Unlock()
}
