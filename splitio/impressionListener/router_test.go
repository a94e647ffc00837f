package impressionlistener

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/util/reporter"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	mutex    sync.Mutex
	received []dtos.ImpressionListenerDTO
	failOn   string
}

func (l *recordingListener) LogImpression(data dtos.ImpressionListenerDTO) {
	if data.Impression.Feature == l.failOn {
		panic("listener failure")
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.received = append(l.received, data)
}

func (l *recordingListener) count() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.received)
}

func (l *recordingListener) features() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	toReturn := make([]string, 0, len(l.received))
	for _, item := range l.received {
		toReturn = append(toReturn, item.Impression.Feature)
	}
	return toReturn
}

type recordingReporter struct {
	mutex      sync.Mutex
	operations []string
}

func (r *recordingReporter) Report(operation string, err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.operations = append(r.operations, operation)
}

func (r *recordingReporter) count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.operations)
}

var testMetadata = dtos.Metadata{SDKVersion: "go-1.0.0", MachineIP: "1.2.3.4", MachineName: "ip-1-2-3-4"}

func item(feature string) dtos.ImpressionListenerDTO {
	return dtos.ImpressionListenerDTO{Impression: dtos.ImpressionDataDTO{Feature: feature, KeyName: "key"}}
}

func TestAddNeverBlocksWithoutConsumer(t *testing.T) {
	router := NewRouter(&recordingListener{}, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			router.Add(item(fmt.Sprintf("feature_%d", i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer should never block")
	}
	assert.Equal(t, 10000, router.Len())
}

func TestDeliveryInOrder(t *testing.T) {
	listener := &recordingListener{}
	router := NewRouter(listener, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	router.Start()
	defer router.Stop(false)

	for i := 0; i < 100; i++ {
		router.Add(item(fmt.Sprintf("feature_%d", i)))
	}

	assert.Eventually(t, func() bool { return listener.count() == 100 }, 2*time.Second, 5*time.Millisecond)
	features := listener.features()
	for i := 0; i < 100; i++ {
		assert.Equal(t, fmt.Sprintf("feature_%d", i), features[i])
	}
}

func TestListenerFailureIsIsolated(t *testing.T) {
	listener := &recordingListener{failOn: "feature_5"}
	errors := &recordingReporter{}
	router := NewRouter(listener, testMetadata, errors, logging.NewLogger(&logging.LoggerOptions{}))
	router.Start()
	defer router.Stop(false)

	for i := 0; i < 10; i++ {
		router.Add(item(fmt.Sprintf("feature_%d", i)))
	}

	assert.Eventually(t, func() bool { return listener.count() == 9 }, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, listener.features(), "feature_6", "the item after the failing one should be delivered")
	assert.Equal(t, 1, errors.count())
	assert.Equal(t, listenerOperation, errors.operations[0])
}

func TestNoListenerSinksItems(t *testing.T) {
	router := NewRouter(nil, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	for i := 0; i < 50; i++ {
		router.Add(item("feature"))
	}
	router.Start()
	defer router.Stop(false)
	assert.Eventually(t, func() bool { return router.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestStopWithDrain(t *testing.T) {
	listener := &recordingListener{}
	router := NewRouter(listener, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	for i := 0; i < 20; i++ {
		router.Add(item("feature"))
	}
	router.Start()
	router.Stop(true)

	assert.Equal(t, 20, listener.count())
	assert.Equal(t, 0, router.Len())
	assert.False(t, router.IsRunning())
}

func TestStopWithoutDrainKeepsItems(t *testing.T) {
	listener := &recordingListener{}
	router := NewRouter(listener, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	router.Stop(false)

	router.Start()
	router.Stop(false)
	for i := 0; i < 5; i++ {
		router.Add(item("feature"))
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 5, router.Len())
	assert.Equal(t, 0, listener.count())
}

func TestRestart(t *testing.T) {
	listener := &recordingListener{}
	router := NewRouter(listener, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	router.Start()
	router.Restart()
	assert.True(t, router.IsRunning())

	router.Add(item("after_restart"))
	assert.Eventually(t, func() bool { return listener.count() == 1 }, 2*time.Second, 5*time.Millisecond)

	router.Stop(false)
	router.Restart()
	router.Add(item("after_stop"))
	assert.Eventually(t, func() bool { return listener.count() == 2 }, 2*time.Second, 5*time.Millisecond)
	router.Stop(false)
}

type blockingListener struct {
	gate      chan struct{}
	entered   chan struct{}
	active    int64
	maxActive int64
	mutex     sync.Mutex
	received  []string
}

func (l *blockingListener) LogImpression(data dtos.ImpressionListenerDTO) {
	current := atomic.AddInt64(&l.active, 1)
	defer atomic.AddInt64(&l.active, -1)
	for {
		highest := atomic.LoadInt64(&l.maxActive)
		if current <= highest || atomic.CompareAndSwapInt64(&l.maxActive, highest, current) {
			break
		}
	}

	if data.Impression.Feature == "first" {
		close(l.entered)
		<-l.gate
	}
	l.mutex.Lock()
	l.received = append(l.received, data.Impression.Feature)
	l.mutex.Unlock()
}

func (l *blockingListener) features() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]string(nil), l.received...)
}

func TestRestartWaitsForItemInFlight(t *testing.T) {
	listener := &blockingListener{gate: make(chan struct{}), entered: make(chan struct{})}
	router := NewRouter(listener, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	router.Start()

	router.Add(item("first"))
	select {
	case <-listener.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("listener should have received the first item")
	}

	restarted := make(chan struct{})
	go func() {
		router.Restart()
		close(restarted)
	}()
	router.Add(item("second"))

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, listener.features(), "nothing else should be delivered while the first item is in flight")
	select {
	case <-restarted:
		t.Error("restart should wait for the previous consumer")
	default:
	}

	close(listener.gate)
	select {
	case <-restarted:
	case <-time.After(2 * time.Second):
		t.Fatal("restart should complete once the previous consumer exits")
	}

	assert.Eventually(t, func() bool { return len(listener.features()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"first", "second"}, listener.features())
	assert.Equal(t, int64(1), atomic.LoadInt64(&listener.maxActive))
	assert.True(t, router.IsRunning())
	router.Stop(false)
}

func TestAddBulk(t *testing.T) {
	listener := &recordingListener{}
	router := NewRouter(listener, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))

	bucketingKey := "bucketing"
	attributes := map[string]interface{}{"country": "ar"}
	router.AddBulk("key", &bucketingKey, evaluator.Results{
		Evaluations: map[string]evaluator.Result{
			"zeta":  {Treatment: "off", Label: "killed", SplitChangeNumber: 3},
			"alpha": {Treatment: "on", Label: "rollout rule", SplitChangeNumber: 1},
			"mid":   {Treatment: "control", Label: "definition not found"},
		},
	}, attributes)
	assert.Equal(t, 3, router.Len())

	router.Start()
	router.Stop(true)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, listener.features())
	first := listener.received[0]
	assert.Equal(t, "key", first.Impression.KeyName)
	assert.Equal(t, "bucketing", first.Impression.BucketingKey)
	assert.Equal(t, "on", first.Impression.Treatment)
	assert.Equal(t, "rollout rule", first.Impression.Label)
	assert.Equal(t, int64(1), first.Impression.ChangeNumber)
	assert.Equal(t, attributes, first.Attributes)
	assert.Equal(t, "ip-1-2-3-4", first.InstanceID)
	assert.Equal(t, "go-1.0.0", first.SDKLanguageVersion)
	assert.Equal(t, first.Impression.Time, listener.received[2].Impression.Time)
}

func TestDefaultReporterLogs(t *testing.T) {
	router := NewRouter(&recordingListener{failOn: "f"}, testMetadata, nil, logging.NewLogger(&logging.LoggerOptions{}))
	_, ok := router.reporter.(*reporter.LoggingReporter)
	assert.True(t, ok)
	router.Add(item("f"))
	router.Start()
	router.Stop(true)
}
