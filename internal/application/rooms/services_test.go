package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/artspace/room-analyzer/internal/domain/ai"
	"github.com/artspace/room-analyzer/internal/domain/catalog"
	domain "github.com/artspace/room-analyzer/internal/domain/rooms"
)

type fakeClient struct {
	text   string
	err    error
	panics bool

	calls  int
	images []string
}

func (f *fakeClient) AnalyzeRoom(_ context.Context, image string) (string, error) {
	f.calls++
	f.images = append(f.images, image)
	if f.panics {
		panic("upstream exploded")
	}
	return f.text, f.err
}

type fakeObserver struct {
	outcomes []string
	calls    []time.Duration
}

func (f *fakeObserver) ObserveAnalysis(outcome string)    { f.outcomes = append(f.outcomes, outcome) }
func (f *fakeObserver) ObserveModelCall(d time.Duration) { f.calls = append(f.calls, d) }

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type suffixNormalizer struct{}

func (suffixNormalizer) Normalize(p string) string { return p + "-normalized" }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newService(client *fakeClient) (*Service, *fakeObserver) {
	obs := &fakeObserver{}
	return &Service{
		Client:   client,
		Observer: obs,
		Clock:    &stepClock{t: time.Unix(0, 0), step: 250 * time.Millisecond},
		Log:      quietLogger(),
	}, obs
}

func asJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

const goodOutput = `Here you go: {"analysis":{"description":"Sunny nook","dominantColors":["yellow"],"style":"cottage","mood":"cozy","lighting":"warm"},"recommendations":[{"artworkId":103,"matchScore":97,"reason":"Warm tones"}]}`

func TestAnalyze_ModelSuccess(t *testing.T) {
	client := &fakeClient{text: goodOutput}
	svc, obs := newService(client)

	res, err := svc.Analyze(context.Background(), []byte(`{"image":"data:image/png;base64,QUJD"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"QUJD"}, client.images)
	assert.Equal(t, "cottage", res.Analysis.Style)
	assert.Equal(t, []string{string(OutcomeModel)}, obs.outcomes)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, obs.calls)
}

func TestAnalyze_RawAndDataURLSendSamePayload(t *testing.T) {
	client := &fakeClient{text: goodOutput}
	svc, _ := newService(client)

	_, err := svc.Analyze(context.Background(), []byte(`{"image":"data:image/png;base64,QUJD"}`))
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), []byte(`{"image":"QUJD"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"QUJD", "QUJD"}, client.images)
}

func TestAnalyze_MissingImageSkipsModel(t *testing.T) {
	for _, body := range []string{`{}`, `[]`, `["QUJD"]`, `"abc"`} {
		t.Run(body, func(t *testing.T) {
			client := &fakeClient{text: goodOutput}
			svc, obs := newService(client)

			_, err := svc.Analyze(context.Background(), []byte(body))
			assert.ErrorIs(t, err, domain.ErrNoImage)
			assert.Zero(t, client.calls)
			assert.Equal(t, []string{string(OutcomeMissingImage)}, obs.outcomes)
		})
	}
}

func TestAnalyze_FallsBackToDefault(t *testing.T) {
	want := domain.DefaultResult()

	tests := []struct {
		name    string
		body    string
		client  *fakeClient
		outcome Outcome
		called  bool
	}{
		{name: "model error", body: `{"image":"QUJD"}`, client: &fakeClient{err: errors.New("connection reset")}, outcome: OutcomeFallbackUpstream, called: true},
		{name: "missing credential", body: `{"image":"QUJD"}`, client: &fakeClient{err: domai.ErrMissingAPIKey}, outcome: OutcomeFallbackUpstream, called: true},
		{name: "model panics", body: `{"image":"QUJD"}`, client: &fakeClient{panics: true}, outcome: OutcomeFallbackUpstream, called: true},
		{name: "prose only", body: `{"image":"QUJD"}`, client: &fakeClient{text: "Sorry, I can't help with that."}, outcome: OutcomeFallbackParse, called: true},
		{name: "broken json", body: `{"image":"QUJD"}`, client: &fakeClient{text: "{analysis: ???}"}, outcome: OutcomeFallbackParse, called: true},
		{name: "body not json", body: `image=QUJD`, client: &fakeClient{text: goodOutput}, outcome: OutcomeFallbackInput},
		{name: "body is number", body: `42`, client: &fakeClient{text: goodOutput}, outcome: OutcomeFallbackInput},
		{name: "body is null", body: `null`, client: &fakeClient{text: goodOutput}, outcome: OutcomeFallbackInput},
		{name: "image is null", body: `{"image":null}`, client: &fakeClient{text: goodOutput}, outcome: OutcomeFallbackInput},
		{name: "image is number", body: `{"image":42}`, client: &fakeClient{text: goodOutput}, outcome: OutcomeFallbackInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, obs := newService(tt.client)

			res, err := svc.Analyze(context.Background(), []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, asJSON(t, want), asJSON(t, res))
			assert.Equal(t, []string{string(tt.outcome)}, obs.outcomes)
			assert.Equal(t, tt.called, tt.client.calls == 1)
		})
	}
}

func TestAnalyze_NilClient(t *testing.T) {
	svc := &Service{Log: quietLogger()}

	res, err := svc.Analyze(context.Background(), []byte(`{"image":"QUJD"}`))
	require.NoError(t, err)
	assert.Equal(t, asJSON(t, domain.DefaultResult()), asJSON(t, res))
}

func TestAnalyze_UsesNormalizer(t *testing.T) {
	client := &fakeClient{text: goodOutput}
	svc, _ := newService(client)
	svc.Normalizer = suffixNormalizer{}

	_, err := svc.Analyze(context.Background(), []byte(`{"image":"data:image/jpeg;base64,QUJD"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"QUJD-normalized"}, client.images)
}

func TestAnalyze_EmptyImageStillCallsModel(t *testing.T) {
	client := &fakeClient{err: errors.New("invalid image")}
	svc, _ := newService(client)

	_, err := svc.Analyze(context.Background(), []byte(`{"image":""}`))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, client.images)
}

type blockingClient struct {
	deadline bool
}

func (b *blockingClient) AnalyzeRoom(ctx context.Context, _ string) (string, error) {
	_, b.deadline = ctx.Deadline()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(5 * time.Second):
		return goodOutput, nil
	}
}

func TestAnalyze_ModelTimeoutFallsBack(t *testing.T) {
	client := &blockingClient{}
	obs := &fakeObserver{}
	svc := &Service{Client: client, Observer: obs, Log: quietLogger(), ModelTimeout: 50 * time.Millisecond}

	started := time.Now()
	res, err := svc.Analyze(context.Background(), []byte(`{"image":"QUJD"}`))
	require.NoError(t, err)

	assert.Less(t, time.Since(started), 2*time.Second)
	assert.True(t, client.deadline)
	assert.Equal(t, asJSON(t, domain.DefaultResult()), asJSON(t, res))
	assert.Equal(t, []string{string(OutcomeFallbackUpstream)}, obs.outcomes)
}

func TestAnalyze_LogsArtworksOutsideCatalog(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	client := &fakeClient{text: `{"analysis":{},"recommendations":[{"artworkId":103,"matchScore":90,"reason":"ok"},{"artworkId":999,"matchScore":80,"reason":"made up"}]}`}
	svc, obs := newService(client)
	svc.Log = log

	res, err := svc.Analyze(context.Background(), []byte(`{"image":"QUJD"}`))
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2, "unknown ids are still returned")
	assert.Equal(t, []string{string(OutcomeModel)}, obs.outcomes)

	var unknown []any
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel {
			unknown = append(unknown, e.Data["artwork_id"])
		}
	}
	assert.Equal(t, []any{catalog.ArtworkID(999)}, unknown)
}
