package telemetry

import "testing"

func TestChannelEmitterDeliversEvent(t *testing.T) {
	emitter := NewChannelEmitter(4)
	emitter.Emit(NewEvent(TopicCrawlerStarted, map[string]any{"projectId": "p1"}))

	select {
	case e := <-emitter.Events():
		if e.Topic != TopicCrawlerStarted {
			t.Fatalf("got topic %q", e.Topic)
		}
	default:
		t.Fatal("expected buffered event")
	}
}

func TestChannelEmitterDropsWhenFull(t *testing.T) {
	emitter := NewChannelEmitter(1)
	emitter.Emit(NewEvent(TopicCrawlerProgress, nil))
	emitter.Emit(NewEvent(TopicCrawlerProgress, nil)) // must not block, second is dropped

	<-emitter.Events()
	select {
	case <-emitter.Events():
		t.Fatal("expected second event to have been dropped")
	default:
	}
}

func TestRecorderSnapshotsAreIndependent(t *testing.T) {
	r := NewRecorder("test")
	r.RecordFetch(FetchRecord{URL: "https://x.com"})
	snap := r.Fetches()
	r.RecordFetch(FetchRecord{URL: "https://y.com"})
	if len(snap) != 1 {
		t.Fatalf("expected snapshot to stay at 1, got %d", len(snap))
	}
}
