package telemetry

// Event is the fire-and-forget payload shape for every topic in §6:
// crawler.started/progress/page_crawled/completed/failed and
// analyzer.started/progress/page_analyzed/completed/failed.
type Event struct {
	Topic   string
	Payload map[string]any
}

func NewEvent(topic string, payload map[string]any) Event {
	return Event{Topic: topic, Payload: payload}
}

// Crawler event topics.
const (
	TopicCrawlerStarted     = "crawler.started"
	TopicCrawlerProgress    = "crawler.progress"
	TopicCrawlerPageCrawled = "crawler.page_crawled"
	TopicCrawlerCompleted   = "crawler.completed"
	TopicCrawlerFailed      = "crawler.failed"
)

// Analyzer event topics.
const (
	TopicAnalyzerStarted      = "analyzer.started"
	TopicAnalyzerProgress     = "analyzer.progress"
	TopicAnalyzerPageAnalyzed = "analyzer.page_analyzed"
	TopicAnalyzerCompleted    = "analyzer.completed"
	TopicAnalyzerFailed       = "analyzer.failed"
)

// EventEmitter is the external collaborator from §6. Emission is
// fire-and-forget: implementations must not block the caller meaningfully
// and must never propagate an error back into the crawl/analysis loop.
type EventEmitter interface {
	Emit(event Event)
}

// NoopEmitter discards every event; used where no consumer is wired.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}

// ChannelEmitter fans events out onto a buffered channel for an in-process
// consumer (tests, the example integration glue). If the channel is full,
// the event is dropped rather than blocking the crawl — this is the
// fire-and-forget contract in practice.
type ChannelEmitter struct {
	ch chan Event
}

func NewChannelEmitter(buffer int) *ChannelEmitter {
	return &ChannelEmitter{ch: make(chan Event, buffer)}
}

func (c *ChannelEmitter) Emit(event Event) {
	select {
	case c.ch <- event:
	default:
	}
}

func (c *ChannelEmitter) Events() <-chan Event {
	return c.ch
}

var (
	_ EventEmitter = NoopEmitter{}
	_ EventEmitter = (*ChannelEmitter)(nil)
)
