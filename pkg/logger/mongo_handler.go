package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// LogEntry is the document shape stored in the log collection. request_id,
// user_id and shop_id are lifted out of the attributes so they can be
// indexed and queried per tenant.
type LogEntry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	UserID    any       `bson:"user_id,omitempty"`
	ShopID    any       `bson:"shop_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is an slog.Handler that batches records into MongoDB from a
// single background goroutine. Handle never blocks; records are dropped
// when the queue is full.
type MongoHandler struct {
	sink   *mongoSink
	attrs  []slog.Attr
	prefix string
}

type mongoSink struct {
	client *mongo.Client
	col    *mongo.Collection
	queue  chan LogEntry
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewMongoHandler connects to uri and starts the drain loop. Call Close to
// flush the queue and disconnect.
func NewMongoHandler(ctx context.Context, uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("logger/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger/mongo: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "shop_id", Value: 1}, {Key: "time", Value: -1}}},
	})

	s := &mongoSink{
		client: client,
		col:    col,
		queue:  make(chan LogEntry, mongoQueueSize),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drain()

	return &MongoHandler{sink: s}, nil
}

func (h *MongoHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Time:  r.Time.UTC(),
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	for _, a := range h.attrs {
		h.put(&entry, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.put(&entry, h.prefix, a)
		return true
	})
	if len(entry.Attrs) == 0 {
		entry.Attrs = nil
	}

	select {
	case h.sink.queue <- entry:
	default:
	}
	return nil
}

func (h *MongoHandler) put(e *LogEntry, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if prefix == "" {
		switch a.Key {
		case "request_id":
			e.RequestID = v.String()
			return
		case "user_id":
			e.UserID = v.Any()
			return
		case "shop_id":
			e.ShopID = v.Any()
			return
		}
	}
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.put(e, prefix+a.Key+".", ga)
		}
		return
	}
	if err, ok := v.Any().(error); ok {
		e.Attrs[prefix+a.Key] = err.Error()
		return
	}
	e.Attrs[prefix+a.Key] = v.Any()
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &MongoHandler{sink: h.sink, prefix: h.prefix}
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), h.prefixed(attrs)...)
	return next
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &MongoHandler{sink: h.sink, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func (h *MongoHandler) prefixed(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}
	return out
}

// Close flushes queued entries and disconnects. Safe to call more than once.
func (h *MongoHandler) Close() {
	h.sink.once.Do(func() {
		close(h.sink.done)
		h.sink.wg.Wait()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.sink.client.Disconnect(ctx)
	})
}

func (s *mongoSink) drain() {
	defer s.wg.Done()

	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = s.col.InsertMany(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, e)
					if len(batch) >= mongoBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// MultiHandler fans each record out to every handler that accepts its level.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []string
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("logger: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}
