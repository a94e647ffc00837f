package client

import (
	"sort"

	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"
	"github.com/splitio/go-toolkit/v5/logging"
)

// flagLister is implemented by flag providers able to enumerate their definitions
type flagLister interface {
	Names() []string
}

// SplitManager provides information of the currently loaded feature flags
type SplitManager struct {
	flags   evaluator.FlagProvider
	logger  logging.LoggerInterface
	factory *SplitFactory
}

// SplitView is a partial representation of a currently loaded feature flag
type SplitView struct {
	Name             string
	Killed           bool
	Treatments       []string
	ChangeNumber     int64
	DefaultTreatment string
}

func newSplitView(flag *evaluator.FlagDefinition) *SplitView {
	treatments := make([]string, 0, len(flag.Partitions))
	for _, partition := range flag.Partitions {
		treatments = append(treatments, partition.Treatment())
	}
	return &SplitView{
		Name:             flag.Name,
		Killed:           flag.Killed,
		Treatments:       treatments,
		ChangeNumber:     flag.ChangeNumber,
		DefaultTreatment: flag.DefaultTreatment,
	}
}

func (m *SplitManager) isDestroyed() bool {
	if m.factory != nil && m.factory.IsDestroyed() {
		m.logger.Error("Client has already been destroyed - no calls possible")
		return true
	}
	return false
}

// SplitNames returns a sorted list with the name of all the currently loaded feature flags
func (m *SplitManager) SplitNames() []string {
	lister, ok := m.flags.(flagLister)
	if !ok || m.isDestroyed() {
		return []string{}
	}
	names := lister.Names()
	sort.Strings(names)
	return names
}

// Splits returns a list of a partial view of every currently loaded feature flag
func (m *SplitManager) Splits() []SplitView {
	splitViews := make([]SplitView, 0)
	for _, name := range m.SplitNames() {
		if flag := m.flags.Flag(name); flag != nil {
			splitViews = append(splitViews, *newSplitView(flag))
		}
	}
	return splitViews
}

// Split returns a partial view of a particular feature flag
func (m *SplitManager) Split(featureFlagName string) *SplitView {
	if m.isDestroyed() {
		return nil
	}
	if flag := m.flags.Flag(featureFlagName); flag != nil {
		return newSplitView(flag)
	}
	return nil
}
