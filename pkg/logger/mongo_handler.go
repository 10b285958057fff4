package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sinkBuffer    = 4096
	sinkBatch     = 50
	sinkFlushTick = 2 * time.Second
)

// LogDocument is one record as stored in MongoDB. Order and product
// identifiers are lifted out of the attributes so a shop operator can
// trace an order or a SKU with an indexed query.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	OrderCode string    `bson:"order_code,omitempty"`
	SKU       string    `bson:"sku,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// lifted maps attribute keys onto LogDocument fields.
var lifted = map[string]func(*LogDocument, string){
	"request_id": func(d *LogDocument, v string) { d.RequestID = v },
	"order_code": func(d *LogDocument, v string) { d.OrderCode = v },
	"sku":        func(d *LogDocument, v string) { d.SKU = v },
}

// mongoSink owns the connection and the writer goroutine. Handlers derived
// through WithAttrs/WithGroup share one sink.
type mongoSink struct {
	client  *mongo.Client
	col     *mongo.Collection
	queue   chan LogDocument
	done    chan struct{}
	stopped chan struct{}
}

func (s *mongoSink) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(sinkFlushTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, sinkBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.col.InsertMany(ctx, batch); err != nil {
			// slog would recurse into this sink.
			fmt.Fprintf(os.Stderr, "logger: mongo insert %d docs: %v\n", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-s.queue:
			if batch = append(batch, doc); len(batch) >= sinkBatch {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for len(s.queue) > 0 {
				batch = append(batch, <-s.queue)
			}
			flush()
			return
		}
	}
}

// MongoHandler is a slog.Handler that ships info-and-above records to a
// MongoDB collection in batches. Handle never blocks; records are dropped
// while the buffer is full.
type MongoHandler struct {
	sink   *mongoSink
	attrs  []slog.Attr
	groups []string
}

// NewMongoHandler connects to uri and writes into db.collection. Call
// Close to flush.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("mongo sink: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo sink: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "order_code", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetSparse(true)},
	})

	s := &mongoSink{
		client:  client,
		col:     col,
		queue:   make(chan LogDocument, sinkBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return &MongoHandler{sink: s}, nil
}

// Enabled keeps debug records on the console only.
func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= slog.LevelInfo && l >= Level.Level()
}

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	doc := h.document(r)
	select {
	case h.sink.queue <- doc:
	default:
	}
	return nil
}

func (h *MongoHandler) document(r slog.Record) LogDocument {
	doc := LogDocument{Time: r.Time, Level: r.Level.String(), Msg: r.Message, Attrs: bson.M{}}
	add := func(a slog.Attr) bool {
		if set, ok := lifted[a.Key]; ok {
			set(&doc, a.Value.String())
			return true
		}
		key := a.Key
		for i := len(h.groups) - 1; i >= 0; i-- {
			key = h.groups[i] + "." + key
		}
		doc.Attrs[key] = fmt.Sprint(a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)
	return doc
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// Close flushes queued documents and disconnects. Safe to call twice.
func (h *MongoHandler) Close() {
	s := h.sink
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	<-s.stopped
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// MultiHandler sends every record to each wrapped handler that accepts
// its level.
type MultiHandler []slog.Handler

func NewMultiHandler(hs ...slog.Handler) MultiHandler { return MultiHandler(hs) }

func (m MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(MultiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m MultiHandler) WithGroup(name string) slog.Handler {
	out := make(MultiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
