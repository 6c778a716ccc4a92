package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/pkg/jobs"
)

type recordingNotifier struct {
	alerts chan AbsenceAlert
	err    error
}

func newRecorder() *recordingNotifier {
	return &recordingNotifier{alerts: make(chan AbsenceAlert, 4)}
}

func (r *recordingNotifier) Notify(_ context.Context, alert AbsenceAlert) error {
	r.alerts <- alert
	return r.err
}

func TestGuardianRouterPrefersEmail(t *testing.T) {
	email, fallback := newRecorder(), newRecorder()
	router := NewGuardianRouter(email, fallback)

	require.NoError(t, router.Notify(context.Background(), AbsenceAlert{StudentID: "s1", GuardianEmail: "p@example.com"}))
	require.NoError(t, router.Notify(context.Background(), AbsenceAlert{StudentID: "s2"}))

	assert.Equal(t, "s1", (<-email.alerts).StudentID)
	assert.Equal(t, "s2", (<-fallback.alerts).StudentID)
	assert.Len(t, email.alerts, 0)
}

func TestGuardianRouterWithoutEmailChannel(t *testing.T) {
	fallback := newRecorder()
	router := NewGuardianRouter(nil, fallback)

	require.NoError(t, router.Notify(context.Background(), AbsenceAlert{StudentID: "s1", GuardianEmail: "p@example.com"}))
	assert.Equal(t, "s1", (<-fallback.alerts).StudentID)
}

func TestDispatcherDeliversInBackground(t *testing.T) {
	delivery := newRecorder()
	d := NewDispatcher(delivery, jobs.QueueConfig{Workers: 1, RetryDelay: time.Millisecond})
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Notify(context.Background(), AbsenceAlert{StudentID: "s1", Absences: 3}))

	select {
	case alert := <-delivery.alerts:
		assert.Equal(t, 3, alert.Absences)
	case <-time.After(2 * time.Second):
		t.Fatal("alert not delivered")
	}
}

func TestSendgridNotifierPostsMail(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := NewSendgridNotifier("key", "Academia", "no-reply@academia.test")
	n.host = server.URL

	err := n.Notify(context.Background(), AbsenceAlert{
		StudentName:   "Ana",
		GuardianName:  "Rosa",
		GuardianEmail: "rosa@example.com",
		Absences:      3,
		Date:          time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, payload)
	from := payload["from"].(map[string]interface{})
	assert.Equal(t, "no-reply@academia.test", from["email"])
}

func TestSendgridNotifierSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewSendgridNotifier("bad", "Academia", "no-reply@academia.test")
	n.host = server.URL

	err := n.Notify(context.Background(), AbsenceAlert{GuardianEmail: "rosa@example.com"})
	assert.Error(t, err)

	err = n.Notify(context.Background(), AbsenceAlert{StudentID: "s1"})
	assert.Error(t, err)
}

func TestAbsenceAlertBody(t *testing.T) {
	alert := AbsenceAlert{StudentName: "Ana", Absences: 4, CourseName: "Algebra", Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)}
	assert.Contains(t, alert.Body(), "Ana has been marked absent 4 times in Algebra")
	assert.Contains(t, alert.Body(), "2024-04-02")
	assert.Equal(t, "Absence alert: Ana", alert.Subject())
}
