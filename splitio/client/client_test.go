package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/conf"
	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator/impressionlabels"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator/mocks"
	"github.com/splitio/go-sdk-runtime/splitio/engine/grammar"
	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	config "github.com/splitio/go-split-commons/v7/conf"
	"github.com/stretchr/testify/assert"
)

type recordersMock struct {
	mutex       sync.Mutex
	impressions []dtos.ImpressionsDTO
	events      []dtos.EventDTO
	counts      []dtos.ImpressionsCountDTO
	uniques     []dtos.Key
	configs     int
	stats       []telemetry.StatsData
}

type impressionsRecorderMock struct{ *recordersMock }

func (r impressionsRecorderMock) Record(ctx context.Context, impressions []dtos.ImpressionsDTO, metadata dtos.Metadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.impressions = append(r.impressions, impressions...)
	return nil
}

type eventsRecorderMock struct{ *recordersMock }

func (r eventsRecorderMock) Record(ctx context.Context, events []dtos.EventDTO, metadata dtos.Metadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordersMock) RecordImpressionsCount(ctx context.Context, counts dtos.ImpressionsCountsDTO, metadata dtos.Metadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.counts = append(r.counts, counts.PerFeature...)
	return nil
}

func (r *recordersMock) RecordUniqueKeys(ctx context.Context, uniques dtos.Uniques, metadata dtos.Metadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.uniques = append(r.uniques, uniques.Keys...)
	return nil
}

func (r *recordersMock) RecordConfig(ctx context.Context, config telemetry.InitData, metadata dtos.Metadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.configs++
	return nil
}

func (r *recordersMock) RecordStats(ctx context.Context, stats telemetry.StatsData, metadata dtos.Metadata) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.stats = append(r.stats, stats)
	return nil
}

func (r *recordersMock) recorders() service.Recorders {
	return service.Recorders{
		Impressions:      impressionsRecorderMock{r},
		ImpressionsCount: r,
		Events:           eventsRecorderMock{r},
		UniqueKeys:       r,
		Telemetry:        r,
	}
}

type listenerMock struct {
	mutex sync.Mutex
	data  []dtos.ImpressionListenerDTO
}

func (l *listenerMock) LogImpression(data dtos.ImpressionListenerDTO) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.data = append(l.data, data)
}

func (l *listenerMock) received() []dtos.ImpressionListenerDTO {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]dtos.ImpressionListenerDTO(nil), l.data...)
}

func testFlags() *evaluator.StaticFlagProvider {
	return evaluator.NewStaticFlagProvider([]evaluator.FlagDefinition{
		{
			Name:             "always_on",
			Seed:             1,
			ChangeNumber:     10,
			DefaultTreatment: "off",
			Partitions:       []grammar.Partition{grammar.NewPartition("on", 100)},
		},
		{
			Name:             "killed",
			Seed:             2,
			ChangeNumber:     20,
			Killed:           true,
			DefaultTreatment: "off",
			Partitions:       []grammar.Partition{grammar.NewPartition("on", 100)},
		},
	})
}

func testConfig(mW *MockWriter) *conf.SplitSdkConfig {
	cfg := conf.Default()
	cfg.Logger = getMockedLogger(mW)
	return cfg
}

func TestTreatmentAndImpressions(t *testing.T) {
	mW := &MockWriter{}
	recorders := &recordersMock{}
	factory, err := NewSplitFactory(testConfig(mW), testFlags(), WithRecorders(recorders.recorders()))
	assert.Nil(t, err)
	client := factory.Client()

	assert.Equal(t, "on", client.Treatment("user", "always_on", nil))
	assert.Equal(t, "on", client.Treatment("user", "always_on", nil))
	assert.Equal(t, "off", client.Treatment(NewKey("user", "bucket"), "killed", nil))
	assert.Equal(t, evaluator.Control, client.Treatment("user", "missing", nil))
	assert.Equal(t, evaluator.Control, client.Treatment(nil, "always_on", nil))
	assert.Len(t, factory.telemetry.PeekLatencies().Treatment, 23)

	client.Destroy()
	assert.True(t, factory.IsDestroyed())
	assert.Equal(t, evaluator.Control, client.Treatment("user", "always_on", nil))

	byFlag := make(map[string][]dtos.ImpressionDTO)
	for _, impressions := range recorders.impressions {
		byFlag[impressions.TestName] = append(byFlag[impressions.TestName], impressions.KeyImpressions...)
	}
	assert.Len(t, byFlag, 2, "missing flags produce no impressions")
	assert.Len(t, byFlag["always_on"], 1, "the repeated impression is deduped")
	assert.Equal(t, impressionlabels.RolloutRule, byFlag["always_on"][0].Label)
	assert.Equal(t, int64(10), byFlag["always_on"][0].ChangeNumber)
	assert.Equal(t, "bucket", byFlag["killed"][0].BucketingKey)
	assert.Equal(t, impressionlabels.Killed, byFlag["killed"][0].Label)

	assert.Len(t, recorders.counts, 1)
	assert.Equal(t, "always_on", recorders.counts[0].FeatureName)
	assert.Equal(t, int64(1), recorders.counts[0].RawCount)
	assert.Equal(t, 1, recorders.configs)
	assert.NotEmpty(t, recorders.stats, "stats are posted at least once, when the factory is destroyed")
	assert.Equal(t, int64(1), factory.telemetry.GetImpressionsStats(constants.ImpressionsDeduped))
}

func TestTreatmentsWithListener(t *testing.T) {
	mW := &MockWriter{}
	cfg := testConfig(mW)
	cfg.ImpressionsMode = config.ImpressionsModeDebug
	cfg.LabelsEnabled = false
	listener := &listenerMock{}
	cfg.Advanced.ImpressionListener = listener
	recorders := &recordersMock{}

	factory, err := NewSplitFactory(cfg, testFlags(), WithRecorders(recorders.recorders()))
	assert.Nil(t, err)
	client := factory.Client()

	treatments := client.Treatments("user", []string{"always_on", "killed", "missing", "always_on"}, map[string]interface{}{"plan": "pro"})
	assert.Equal(t, map[string]string{"always_on": "on", "killed": "off", "missing": evaluator.Control}, treatments)
	assert.Equal(t, map[string]string{}, client.Treatments("user", []string{""}, nil))
	assert.Equal(t, map[string]string{"a": evaluator.Control}, client.Treatments(true, []string{"a"}, nil))

	assert.Eventually(t, func() bool { return len(listener.received()) == 2 }, time.Second, 10*time.Millisecond)
	for _, data := range listener.received() {
		assert.Equal(t, "pro", data.Attributes["plan"])
		assert.Equal(t, "", data.Impression.Label)
		assert.Equal(t, factory.metadata.SDKVersion, data.SDKLanguageVersion)
	}

	client.Destroy()
	total := 0
	for _, impressions := range recorders.impressions {
		total += len(impressions.KeyImpressions)
	}
	assert.Equal(t, 2, total)
	assert.Empty(t, recorders.counts, "debug mode does not count impressions")
}

func TestNoneModeTracksUniqueKeys(t *testing.T) {
	mW := &MockWriter{}
	cfg := testConfig(mW)
	cfg.ImpressionsMode = config.ImpressionsModeNone
	recorders := &recordersMock{}

	factory, err := NewSplitFactory(cfg, testFlags(), WithRecorders(recorders.recorders()))
	assert.Nil(t, err)
	client := factory.Client()
	client.Treatment("user1", "always_on", nil)
	client.Treatment("user2", "always_on", nil)
	client.Treatment("user1", "always_on", nil)
	client.Destroy()

	assert.Empty(t, recorders.impressions)
	assert.Len(t, recorders.uniques, 1)
	assert.Equal(t, []string{"user1", "user2"}, recorders.uniques[0].Keys)
	assert.Equal(t, int64(3), recorders.counts[0].RawCount)
}

func TestTrack(t *testing.T) {
	mW := &MockWriter{}
	recorders := &recordersMock{}
	factory, err := NewSplitFactory(testConfig(mW), testFlags(), WithRecorders(recorders.recorders()))
	assert.Nil(t, err)
	client := factory.Client()

	assert.Nil(t, client.Track("user", "User", "checkout", 10.5, map[string]interface{}{"plan": "pro"}))
	assert.NotNil(t, client.Track("user", "user", "", nil, nil))
	assert.NotNil(t, client.Track("user", "user", "checkout", "nan", nil))
	assert.Len(t, factory.telemetry.PeekLatencies().Track, 23)

	client.Destroy()
	assert.NotNil(t, client.Track("user", "user", "checkout", nil, nil))
	assert.Len(t, recorders.events, 1)
	assert.Equal(t, "user", recorders.events[0].TrafficTypeName)
	assert.Equal(t, 10.5, recorders.events[0].Value)
	assert.Equal(t, "pro", recorders.events[0].Properties["plan"])
}

func TestPanicsAreRecovered(t *testing.T) {
	mW := &MockWriter{}
	factory, err := NewSplitFactory(testConfig(mW), testFlags(), WithRecorders((&recordersMock{}).recorders()))
	assert.Nil(t, err)
	defer factory.Destroy()

	client := factory.Client()
	client.evaluator = mocks.MockEvaluator{
		EvaluateFeatureCall: func(key string, bucketingKey *string, feature string) *evaluator.Result {
			panic("evaluation failure")
		},
		EvaluateFeaturesCall: func(key string, bucketingKey *string, features []string) evaluator.Results {
			panic("evaluation failure")
		},
	}

	assert.Equal(t, evaluator.Control, client.Treatment("user", "always_on", nil))
	assert.Equal(t, map[string]string{"always_on": evaluator.Control}, client.Treatments("user", []string{"always_on"}, nil))
	assert.True(t, mW.Matches("A Panic has been checked in the sdk code and recovered"))

	exceptions := factory.telemetry.PopExceptions()
	assert.Equal(t, int64(1), exceptions.Treatment)
	assert.Equal(t, int64(1), exceptions.Treatments)
}

func TestInvalidConfig(t *testing.T) {
	cfg := conf.Default()
	cfg.OperationMode = "localhost"
	_, err := NewSplitFactory(cfg, nil)
	assert.ErrorContains(t, err, "OperationMode")
}
