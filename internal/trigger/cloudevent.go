package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/googleapis/google-cloudevents-go/cloud/storagedata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/phrazzld/blob-trigger/internal/redact"
)

// ObjectFinalizedEventType is the CloudEvent type Cloud Storage emits once a
// new object (or a new generation of one) is fully written.
const ObjectFinalizedEventType = "google.cloud.storage.object.v1.finalized"

var eventDataOptions = protojson.UnmarshalOptions{DiscardUnknown: true}

// HandleCloudEvent adapts a Cloud Storage event to Run. Events of other types
// and objects outside the binding path are ignored. The returned error, if
// any, is the invocation's outcome.
func (h *Handler) HandleCloudEvent(ctx context.Context, e event.Event) error {
	if e.Type() != ObjectFinalizedEventType {
		h.logger.DebugContext(ctx, "ignoring event",
			"event_id", e.ID(),
			"event_type", e.Type())
		return nil
	}

	var data storagedata.StorageObjectData
	if err := eventDataOptions.Unmarshal(e.Data(), &data); err != nil {
		return fmt.Errorf("%w: event %s: %v", ErrInvalidEvent, e.ID(), err)
	}
	bucket, object := data.GetBucket(), data.GetName()
	if bucket == "" || object == "" {
		return fmt.Errorf("%w: event %s has no bucket or object name", ErrInvalidEvent, e.ID())
	}

	params, ok := h.binding.Match(bucket, object)
	if !ok {
		h.logger.DebugContext(ctx, "ignoring object outside binding path",
			"event_id", e.ID(),
			"bucket", bucket,
			"object", object,
			"binding_path", h.binding.String())
		return nil
	}
	name, ok := params["name"]
	if !ok {
		name = object
	}

	exec := NewExecutionContext(h.functionName, h.appDir)
	log := h.logger.With(
		"invocation_id", exec.InvocationID.String(),
		"event_id", e.ID(),
	)

	start := time.Now()
	log.InfoContext(ctx, fmt.Sprintf("Executing '%s' (Reason='New blob detected: %s/%s', Id=%s)",
		h.functionName, bucket, object, exec.InvocationID))
	log.InfoContext(ctx, fmt.Sprintf("Trigger Details: MessageId: %s, BlobCreated: %s, BlobLastModified: %s",
		e.ID(), formatTimestamp(data.GetTimeCreated()), formatTimestamp(data.GetUpdated())))

	err := h.invoke(ctx, bucket, object, name, log, exec)

	outcome := "Succeeded"
	if err != nil {
		outcome = "Failed"
		log.ErrorContext(ctx, "function invocation failed", "error", redact.Error(err))
	}
	elapsed := time.Since(start)
	log.InfoContext(ctx, fmt.Sprintf("Executed '%s' (%s, Id=%s, Duration=%dms)",
		h.functionName, outcome, exec.InvocationID, elapsed.Milliseconds()),
		"duration_ms", elapsed.Milliseconds())

	return err
}

func (h *Handler) invoke(
	ctx context.Context,
	bucket, object, name string,
	log *slog.Logger,
	exec ExecutionContext,
) error {
	blob, err := h.opener.Open(ctx, bucket, object)
	if err != nil {
		return fmt.Errorf("failed to open blob %s/%s: %w", bucket, object, err)
	}
	defer func() {
		if cerr := blob.Close(); cerr != nil {
			log.WarnContext(ctx, "failed to close blob", "error", cerr)
		}
	}()

	return h.Run(ctx, blob, name, log, exec)
}

// formatTimestamp renders ts in RFC 3339, or "" when the event omits it.
func formatTimestamp(ts *timestamppb.Timestamp) string {
	if ts == nil {
		return ""
	}
	return ts.AsTime().UTC().Format(time.RFC3339)
}
