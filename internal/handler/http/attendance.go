package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

const (
	maxIngestBytes = 10 << 20
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AttendanceHandler interface {
	Ingest(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
	keepalive         time.Duration
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		hub:               hub,
		keepalive:         30 * time.Second,
	}
}

// Ingest implements AttendanceHandler.
func (h *attendanceHandlerImpl) Ingest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIngestBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.BadRequest(w, "Punch export is too large", nil)
			return
		}
		slog.Error("Failed to read request body", "error", err)
		response.BadRequest(w, "Failed to read request body", nil)
		return
	}

	if !json.Valid(body) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.IngestPunches(r.Context(), body)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punches ingested", result)
}

// ListRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	query, err := parseRecordQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListRecords(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	query, err := parseRecordQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summaries, err := h.attendanceService.Summarize(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summaries)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	query, err := parseRecordQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Buffer the workbook so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.attendanceService.Export(r.Context(), query, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", query.StartDate, query.EndDate)
	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write export", "error", err)
	}
}

// Live streams live attendance snapshots as Server-Sent Events.
func (h *attendanceHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.HandleError(w, attendance.ErrStreamingUnsupported)
		return
	}

	// Subscribe before computing the first snapshot so no refresh is missed
	events, cleanup := h.hub.Subscribe(cron.LiveTopic)
	defer cleanup()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")

	records, err := h.attendanceService.LiveSnapshot(r.Context())
	if err != nil {
		slog.Error("Failed to compute initial live snapshot", "error", err)
	} else {
		writeEvent(w, cron.LiveEventName, cron.NewLiveSnapshot(records, time.Now()))
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w io.Writer, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to encode live event", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}

// parseRecordQuery reads the shared record query parameters. Malformed
// numbers are reported as validation errors; range checks happen in the
// service.
func parseRecordQuery(r *http.Request) (attendance.RecordQuery, error) {
	q := r.URL.Query()
	query := attendance.RecordQuery{
		StartDate:   q.Get("start_date"),
		EndDate:     q.Get("end_date"),
		Devices:     validator.SplitList(q.Get("devices")),
		Departments: validator.SplitList(q.Get("departments")),
		Status:      attendance.RecordStatus(q.Get("status")),
		Search:      q.Get("search"),
	}

	var errs validator.ValidationErrors
	intParam := func(key string) *int {
		raw := q.Get(key)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   key,
				Message: key + " must be a whole number",
			})
			return nil
		}
		return &n
	}

	query.Shift.ShiftStartHour = intParam("shift_start_hour")
	query.Shift.DuplicatePunchThresholdMinutes = intParam("duplicate_threshold_minutes")
	if page := intParam("page"); page != nil {
		query.Page = *page
	}
	if limit := intParam("limit"); limit != nil {
		query.Limit = *limit
	}

	if len(errs) > 0 {
		return query, errs
	}
	return query, nil
}
