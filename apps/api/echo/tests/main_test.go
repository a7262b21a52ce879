package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/trezcool/studytrack/apps/api/echo"
	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/dashboard"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/core/user"
	"github.com/trezcool/studytrack/storage/database/dummy"
	"github.com/trezcool/studytrack/tests"
)

var (
	db       *dummydb.DB
	conf     *core.Config
	app      *Server
	usrRepo  user.Repository
	subjRepo subject.Repository
	asgRepo  assignment.Repository
	typeRepo assignment.TypeRepository

	// every test runs at this instant
	now = time.Date(2024, time.March, 11, 12, 0, 0, 0, time.UTC)

	ctxBg = context.Background()

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "Unauthorized access to this subject."}
	errNoSubject    = httpErr{Error: "Subject not found."}
)

func TestMain(m *testing.M) {
	var err error
	core.NowFunc = func() time.Time { return now }
	conf = testutil.NewConfig()

	// set up DB & repos
	if db, err = dummydb.Open(); err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = dummydb.NewUserRepository(db)
	subjRepo = dummydb.NewSubjectRepository(db)
	asgRepo = dummydb.NewAssignmentRepository(db)
	typeRepo = dummydb.NewTypeRepository(db)

	// set up services
	validate, translator := testutil.NewValidator()
	translators, err := NewTranslators()
	if err != nil {
		fmt.Printf("NewTranslators(): %v", err)
		os.Exit(1)
	}
	typeSvc := assignment.NewTypeService(typeRepo)

	// set up server
	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         testutil.NewLogger(conf),
		DisableReqLogs: true,
		UserSvc:        user.NewService(db, usrRepo, typeSvc),
		SubjectSvc:     subject.NewService(subjRepo),
		AssignmentSvc:  assignment.NewService(asgRepo, typeSvc, validate),
		TypeSvc:        typeSvc,
		DashboardSvc:   dashboard.NewService(dummydb.NewDashboardRepository(db)),
		Validate:       validate,
		Translator:     translator,
		Translators:    translators,
	})

	os.Exit(m.Run())
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

// serve runs the request against the app.
func serve(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, usr user.User) string {
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

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	require.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), obj), "body: %s", rec.Body.String())
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
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

func runHTTPTests(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			checkCodeAndData(t, tt, serve(method, tt.path, tt.token, tt.body))
		})
	}
}

// message is the body of mutation answers.
type message struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newStudent(t *testing.T, name, email string) (user.User, string) {
	usr := testutil.CreateUser(t, usrRepo, name, email, "")
	testutil.SeedTypes(t, typeRepo, usr.ID)
	return usr, getToken(t, usr)
}
