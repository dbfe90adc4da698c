package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/service/slack"
	"github.com/m-mizutani/gt"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C123")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates notifier when token and channel are provided", func(t *testing.T) {
		n, err := slack.New("xoxb-test", "C123")
		gt.NoError(t, err).Required()
		gt.Value(t, n).NotNil()
	})
}

func sampleImportReport() *model.ImportReport {
	report := model.NewImportReport(types.ImportLayoutFull, "carta.xlsx", time.Now())
	report.Add(model.ImportRowResult{Line: 2, Title: "Alvará", Outcome: model.ImportOutcomeCreated})
	report.Add(model.ImportRowResult{Line: 3, Title: "Poda", Outcome: model.ImportOutcomeError, Reason: "unique constraint violated"})
	report.Add(model.ImportRowResult{Line: 4, Title: "", Outcome: model.ImportOutcomeSkipped, Reason: "missing field"})
	return report
}

func TestImportBlocks(t *testing.T) {
	blocks, text := slack.ImportBlocks(sampleImportReport(), 10)

	gt.String(t, text).Contains("1 created")
	gt.String(t, text).Contains("1 errors")
	gt.Array(t, blocks).Length(4)

	raw, err := json.Marshal(blocks)
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains("line 3 *Poda*: unique constraint violated")
	gt.String(t, string(raw)).Contains("carta.xlsx")
}

func TestImportBlocks_FailureLimit(t *testing.T) {
	report := model.NewImportReport(types.ImportLayoutSimple, "x.csv", time.Now())
	for i := 0; i < 5; i++ {
		report.Add(model.ImportRowResult{Line: i + 2, Title: "row", Outcome: model.ImportOutcomeError, Reason: "bad"})
	}

	blocks, _ := slack.ImportBlocks(report, 2)
	raw, err := json.Marshal(blocks)
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains("and 3 more")
}

func TestSyncBlocks(t *testing.T) {
	report := model.NewSyncReport(time.Now())
	report.Fetched = 2
	report.Add(model.SyncRecordResult{ExternalID: "ext-1", Outcome: model.SyncOutcomeCreated})
	report.Add(model.SyncRecordResult{ExternalID: "ext-2", Outcome: model.SyncOutcomeError, Reason: "no service"})

	blocks, text := slack.SyncBlocks(report, 10)
	gt.String(t, text).Contains("2 fetched")
	gt.Array(t, blocks).Length(4)

	raw, err := json.Marshal(blocks)
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains("ext-2")
}

func TestSyncBlocks_NoFailures(t *testing.T) {
	blocks, _ := slack.SyncBlocks(model.NewSyncReport(time.Now()), 10)
	gt.Array(t, blocks).Length(3)
}

func TestTruncateToMaxBytes(t *testing.T) {
	gt.Value(t, slack.TruncateToMaxBytes("abc", 10)).Equal("abc")
	gt.Value(t, slack.TruncateToMaxBytes("abcdef", 3)).Equal("abc")
	gt.Value(t, slack.TruncateToMaxBytes("açã", 2)).Equal("a")
	gt.Value(t, slack.TruncateToMaxBytes("açã", 3)).Equal("aç")
}

func TestNotifier_NotifyImport(t *testing.T) {
	var mu sync.Mutex
	var channel, text string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat.postMessage") {
			http.NotFound(w, r)
			return
		}
		gt.NoError(t, r.ParseForm())
		mu.Lock()
		channel = r.PostForm.Get("channel")
		text = r.PostForm.Get("text")
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "channel": "C123", "ts": "1700000000.000100"}`))
	}))
	defer srv.Close()

	n, err := slack.New("xoxb-test", "C123", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	gt.NoError(t, n.NotifyImport(context.Background(), sampleImportReport())).Required()

	mu.Lock()
	defer mu.Unlock()
	gt.Value(t, channel).Equal("C123")
	gt.String(t, text).Contains("Catalog import")
}

func TestNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	n, err := slack.New("xoxb-test", "C404", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	err = n.NotifySync(context.Background(), model.NewSyncReport(time.Now()))
	gt.Value(t, err).NotNil()
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	channelID := os.Getenv("TEST_SLACK_CHANNEL_ID")
	if token == "" || channelID == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_CHANNEL_ID is not set")
	}

	n, err := slack.New(token, channelID)
	gt.NoError(t, err).Required()
	gt.NoError(t, n.NotifyImport(context.Background(), sampleImportReport()))
}
