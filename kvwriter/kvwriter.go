// Package kvwriter provides a key-value backend adapter over a NATS
// JetStream KV bucket. It registers handlers for cache set and delete
// operations; the bucket itself is constructed and owned by the embedding
// application and passed in as an already-connected client.
package kvwriter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/writeflow/pkg/retry"
	"github.com/c360/writeflow/writer"
)

// Request types served by this adapter
const (
	TypeSet    = "cache_set"
	TypeDelete = "cache_delete"
)

// Bucket is the narrow slice of jetstream.KeyValue the adapter needs
type Bucket interface {
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
}

// SetPayload is the payload shape for cache_set requests. Value may be a
// string (stored as-is) or any JSON-serializable value.
type SetPayload struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// DeletePayload is the payload shape for cache_delete requests
type DeletePayload struct {
	Key string `json:"key"`
}

// Writer is a key-value backend adapter
type Writer struct {
	*writer.Base
	bucket Bucket
}

// New creates a key-value adapter claiming the given targets, e.g.
// "redis.cache" or "nats.cache". The bucket must already be connected.
func New(name string, bucket Bucket, targets ...string) (*Writer, error) {
	if bucket == nil {
		return nil, fmt.Errorf("kvwriter: bucket is nil")
	}
	w := &Writer{
		Base:   writer.NewBase(name, writer.MatchTargets(targets...)),
		bucket: bucket,
	}
	if err := w.RegisterHandler(writer.NewHandler(TypeSet, w.set)); err != nil {
		return nil, err
	}
	if err := w.RegisterHandler(writer.NewHandler(TypeDelete, w.delete)); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) set(ctx context.Context, req writer.Request) (writer.Result, error) {
	var payload SetPayload
	if err := decodePayload(req.Payload, &payload); err != nil {
		return writer.Result{}, err
	}
	if payload.Key == "" {
		return writer.Result{}, retry.NonRetryable(fmt.Errorf("cache_set: key is empty"))
	}

	value, err := encodeValue(payload.Value)
	if err != nil {
		return writer.Result{}, retry.NonRetryable(err)
	}

	rev, err := w.bucket.Put(ctx, payload.Key, value)
	if err != nil {
		return writer.Result{}, err
	}
	return writer.Result{
		Message: fmt.Sprintf("key %q stored", payload.Key),
		Data:    map[string]uint64{"revision": rev},
	}, nil
}

func (w *Writer) delete(ctx context.Context, req writer.Request) (writer.Result, error) {
	var payload DeletePayload
	if err := decodePayload(req.Payload, &payload); err != nil {
		return writer.Result{}, err
	}
	if payload.Key == "" {
		return writer.Result{}, retry.NonRetryable(fmt.Errorf("cache_delete: key is empty"))
	}

	if err := w.bucket.Delete(ctx, payload.Key); err != nil {
		// A missing key is not transient, retrying cannot help.
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return writer.Result{}, retry.NonRetryable(err)
		}
		return writer.Result{}, err
	}
	return writer.Result{
		Message: fmt.Sprintf("key %q deleted", payload.Key),
	}, nil
}

// decodePayload accepts the adapter's typed payload structs directly or any
// JSON-shaped equivalent (map, raw message) via a round trip
func decodePayload(payload, out any) error {
	switch p := payload.(type) {
	case SetPayload:
		if target, ok := out.(*SetPayload); ok {
			*target = p
			return nil
		}
	case DeletePayload:
		if target, ok := out.(*DeletePayload); ok {
			*target = p
			return nil
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return retry.NonRetryable(fmt.Errorf("kvwriter: payload not JSON-shaped: %w", err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return retry.NonRetryable(fmt.Errorf("kvwriter: payload decode: %w", err))
	}
	return nil
}

// encodeValue renders the stored value: strings and byte slices as-is,
// everything else as JSON
func encodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("kvwriter: value not JSON-serializable: %w", err)
		}
		return raw, nil
	}
}
