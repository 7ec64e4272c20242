package trigger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pagectl/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitTimeout  = 5 * time.Second
	pollInterval = 10 * time.Millisecond
)

// fakeLabel records every text the trigger sets, in order.
type fakeLabel struct {
	mu    sync.Mutex
	texts []string
}

func (l *fakeLabel) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts = append(l.texts, text)
}

func (l *fakeLabel) history() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.texts...)
}

func (l *fakeLabel) current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.texts) == 0 {
		return ""
	}
	return l.texts[len(l.texts)-1]
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*client.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return c, srv
}

func TestRun_SetsConnectingBeforeNetworkActivity(t *testing.T) {
	label := &fakeLabel{}

	sawRequest := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		sawRequest = true
		_, _ = w.Write([]byte(`{"message": "Done"}`))
	})

	Run(context.Background(), c, label)

	require.True(t, sawRequest)
	history := label.history()
	require.Len(t, history, 2)
	assert.Equal(t, StatusConnecting, history[0])
	assert.Equal(t, "Done", history[1])
}

func TestRun_SuccessShowsServerMessage(t *testing.T) {
	label := &fakeLabel{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "Processed 4 pages"}`))
	})

	Run(context.Background(), c, label)
	assert.Equal(t, "Processed 4 pages", label.current())
}

func TestRun_MissingMessageLeavesLabelEmpty(t *testing.T) {
	label := &fakeLabel{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	// A well-formed response without a message is still a success; the label
	// ends at the absent value's rendering, which for us is the empty string.
	Run(context.Background(), c, label)
	assert.Equal(t, "", label.current())
}

func TestRun_NetworkFailureShowsError(t *testing.T) {
	label := &fakeLabel{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	Run(context.Background(), c, label)
	assert.Equal(t, StatusError, label.current())
}

func TestRun_ErrorStatusShowsError(t *testing.T) {
	label := &fakeLabel{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tooling unavailable", http.StatusInternalServerError)
	})

	Run(context.Background(), c, label)
	assert.Equal(t, StatusError, label.current())
}

func TestRun_NonJSONBodyShowsError(t *testing.T) {
	label := &fakeLabel{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>surprise</html>"))
	})

	Run(context.Background(), c, label)
	assert.Equal(t, StatusError, label.current())
}

func TestTrigger_OverlappingLastCompletionWins(t *testing.T) {
	label := &fakeLabel{}

	release := make(chan struct{})
	var mu sync.Mutex
	requestNo := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestNo++
		n := requestNo
		mu.Unlock()
		if n == 1 {
			// First request is held until the second has answered.
			<-release
			_, _ = w.Write([]byte(`{"message": "First"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message": "Second"}`))
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); Run(context.Background(), c, label) }()
	go func() { defer wg.Done(); Run(context.Background(), c, label) }()

	// Let the fast request finish first, then release the slow one.
	assert.Eventually(t, func() bool {
		for _, text := range label.history() {
			if text == "Second" {
				return true
			}
		}
		return false
	}, waitTimeout, pollInterval)
	close(release)
	wg.Wait()

	// The held request completed last, so its message is the final state.
	assert.Equal(t, "First", label.current())
}

func TestTrigger_ReturnsImmediately(t *testing.T) {
	label := &fakeLabel{}

	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"message": "Done"}`))
	})

	Trigger(context.Background(), c, label)

	// The in-flight trigger has already set the label.
	assert.Eventually(t, func() bool {
		return label.current() == StatusConnecting
	}, waitTimeout, pollInterval)

	close(release)
	assert.Eventually(t, func() bool {
		return label.current() == "Done"
	}, waitTimeout, pollInterval)
}
