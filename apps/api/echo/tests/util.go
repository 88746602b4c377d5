package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/Sathishnaik786/Employee-Management-System-sub000/apps/api/echo"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/user"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/storage/database/dummy"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}

	day = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

type testEnv struct {
	app    Server
	conf   *core.Config
	reg    *lifecycle.Registry
	repo   *dummydb.SnapshotRepository
	logger *testutil.Logger
}

// stores are the snapshot stores the service is built on; both default to the dummy repository.
type stores struct {
	repo  snapshot.Repository
	trans snapshot.Transitioner
}

type setupOption func(*core.Config, *stores)

func withFeatures(features core.FeatureConfig) setupOption {
	return func(conf *core.Config, _ *stores) {
		conf.Features = features
	}
}

func withTransitioner(trans snapshot.Transitioner) setupOption {
	return func(_ *core.Config, s *stores) {
		s.trans = trans
	}
}

func withRepository(repo snapshot.Repository) setupOption {
	return func(_ *core.Config, s *stores) {
		s.repo = repo
	}
}

// failingTransitioner refuses every transition with err.
type failingTransitioner struct {
	err error
}

func (ft failingTransitioner) Transition(context.Context, snapshot.Snapshot, lifecycle.Action) error {
	return ft.err
}

// crossedRepository answers every read with the same snapshot, whatever was asked.
type crossedRepository struct {
	snap snapshot.Snapshot
}

func (cr crossedRepository) GetSnapshot(context.Context, lifecycle.ProcessType, string) (snapshot.Snapshot, error) {
	return cr.snap, nil
}

func (cr crossedRepository) QuerySnapshots(context.Context, snapshot.QueryFilter) ([]snapshot.Snapshot, error) {
	return []snapshot.Snapshot{cr.snap}, nil
}

func setup(t *testing.T, opts ...setupOption) *testEnv {
	conf := core.NewTestConfig()
	conf.Server.DisableReqLogs = true

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewSnapshotRepository(db)
	st := stores{repo: repo, trans: repo}
	for _, opt := range opts {
		opt(conf, &st)
	}

	// set up services
	reg := lifecycle.DefaultRegistry()
	logger := testutil.NewLogger()
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator, reg)
	snapshot.InitValidators(validate, translator, reg)

	// set up server
	app := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Registry:    reg,
		SnapshotSvc: snapshot.NewService(reg, st.repo, st.trans, logger),
		Validate:    validate,
		Translator:  translator,
	})
	return &testEnv{app: app, conf: conf, reg: reg, repo: repo, logger: logger}
}

func (env *testEnv) seed(t *testing.T) {
	testutil.CreateSnapshot(t, env.repo, lifecycle.ProcessPhDAdmission, "app-1", lifecycle.PhDDocumentsVerified, "Jane Doe", day.AddDate(0, 0, -1))
	testutil.CreateSnapshot(t, env.repo, lifecycle.ProcessPhDAdmission, "app-2", lifecycle.PhDSubmitted, "John Roe", day.AddDate(50, 0, 0))
	testutil.CreateSnapshot(t, env.repo, lifecycle.ProcessPhDAdmission, "app-3", lifecycle.PhDGuideAllocated, "Ann Lee", day.AddDate(0, 0, -5))
	testutil.CreateSnapshot(t, env.repo, lifecycle.ProcessLeave, "lv-1", lifecycle.LeavePending, "Annual leave")
}

func (env *testEnv) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	env.app.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, env *testEnv, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			env.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}
