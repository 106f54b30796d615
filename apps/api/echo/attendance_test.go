package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/tests"
)

const attendancePath = "/api/attendance"

func Test_attendanceApi_query(t *testing.T) {
	repo := testutil.NewRepository(t)
	app := testutil.NewServer(t, repo)

	req, rec := newRequest(http.MethodGet, attendancePath)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)

	alice := testutil.CreateRecord(t, repo, "Alice", attendance.StatusPresent)
	bob := testutil.CreateRecord(t, repo, "Bob", attendance.StatusAbsent)

	tests := []httpTest{
		{name: "Get all", path: attendancePath, wantData: marchallList(t, alice, bob)},
		{name: "trailing slash", path: attendancePath + "/", wantData: marchallList(t, alice, bob)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_create(t *testing.T) {
	type body map[string]interface{}

	tests := []struct {
		name       string
		body       []byte
		wantCode   int
		wantStatus attendance.Status
		wantFields []string
	}{
		{name: "present", body: marchallObj(t, body{"studentName": "Alice", "status": "Present"}), wantCode: http.StatusCreated, wantStatus: attendance.StatusPresent},
		{name: "absent", body: marchallObj(t, body{"studentName": "Bob", "status": "Absent"}), wantCode: http.StatusCreated, wantStatus: attendance.StatusAbsent},
		{name: "default status", body: marchallObj(t, body{"studentName": "Carl"}), wantCode: http.StatusCreated, wantStatus: attendance.DefaultStatus},
		{name: "client date ignored", body: marchallObj(t, body{"studentName": "Dan", "status": "Absent", "date": "2001-01-01T00:00:00Z"}), wantCode: http.StatusCreated, wantStatus: attendance.StatusAbsent},
		{name: "empty name", body: marchallObj(t, body{"studentName": "", "status": "Present"}), wantCode: http.StatusBadRequest, wantFields: []string{"studentName"}},
		{name: "missing name", body: marchallObj(t, body{"status": "Present"}), wantCode: http.StatusBadRequest, wantFields: []string{"studentName"}},
		{name: "blank name", body: marchallObj(t, body{"studentName": "   ", "status": "Absent"}), wantCode: http.StatusBadRequest, wantFields: []string{"studentName"}},
		{name: "unknown status", body: marchallObj(t, body{"studentName": "Alice", "status": "Late"}), wantCode: http.StatusBadRequest, wantFields: []string{"status"}},
		{name: "lowercase status", body: marchallObj(t, body{"studentName": "Alice", "status": "present"}), wantCode: http.StatusBadRequest, wantFields: []string{"status"}},
		{name: "everything wrong", body: marchallObj(t, body{"studentName": "", "status": "Late"}), wantCode: http.StatusBadRequest, wantFields: []string{"status", "studentName"}},
		{name: "malformed json", body: []byte(`{"studentName": "Alice",`), wantCode: http.StatusBadRequest},
		{name: "wrong type", body: []byte(`{"studentName": 42}`), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewRepository(t)
			app := testutil.NewServer(t, repo)

			before := time.Now().Add(-time.Second)
			req, rec := newRequest(http.MethodPost, attendancePath, tt.body)
			app.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			listReq, listRec := newRequest(http.MethodGet, attendancePath)
			app.ServeHTTP(listRec, listReq)
			require.Equal(t, http.StatusOK, listRec.Code)
			var listed []attendance.Record
			require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))

			if tt.wantCode != http.StatusCreated {
				resp := decodeError(t, rec)
				assert.NotEmpty(t, resp.Message)
				for _, fld := range tt.wantFields {
					assert.Contains(t, resp.Fields, fld)
					assert.Contains(t, resp.Message, fld)
				}
				assert.Empty(t, listed, "nothing must be persisted")
				return
			}

			var got attendance.Record
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.True(t, got.Date.After(before), "date %v must be server-set", got.Date)
			assert.True(t, got.Date.Before(time.Now().Add(time.Second)), "date %v must be server-set", got.Date)

			require.Len(t, listed, 1)
			assert.Equal(t, got.ID, listed[0].ID)
			assert.Equal(t, got.StudentName, listed[0].StudentName)
			assert.True(t, got.Date.Equal(listed[0].Date))
		})
	}
}

func Test_attendanceApi_createTwice(t *testing.T) {
	app := testutil.NewServer(t, nil)
	data := []byte(`{"studentName": "Alice", "status": "Present"}`)

	ids := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		req, rec := newRequest(http.MethodPost, attendancePath, data)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		ids = append(ids, got.ID)
	}
	assert.NotEqual(t, ids[0], ids[1])

	req, rec := newRequest(http.MethodGet, attendancePath)
	app.ServeHTTP(rec, req)
	var listed []attendance.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.ElementsMatch(t, ids, []string{listed[0].ID, listed[1].ID})
}

func Test_attendanceApi_storeUnavailable(t *testing.T) {
	app := testutil.NewServer(t, testutil.UnavailableRepository{})
	serverErr := marchallObj(t, map[string]string{"message": http.StatusText(http.StatusInternalServerError)})

	tests := []httpTest{
		{name: "list", method: http.MethodGet, path: attendancePath, wantData: serverErr},
		{
			name: "create", method: http.MethodPost, path: attendancePath,
			body: []byte(`{"studentName": "Alice", "status": "Present"}`), wantData: serverErr,
		},
		{
			name: "validation still first", method: http.MethodPost, path: attendancePath,
			body: []byte(`{"studentName": "Alice", "status": "Late"}`), wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusInternalServerError
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

type disconnectedRepository struct {
	testutil.UnavailableRepository
}

func (disconnectedRepository) QueryAllRecords(context.Context) ([]attendance.Record, error) {
	return nil, errors.Wrap(core.NewShutdownError("client is disconnected"), "querying attendance records")
}

func Test_attendanceApi_storeDisconnected(t *testing.T) {
	app := testutil.NewServer(t, disconnectedRepository{})

	req, rec := newRequest(http.MethodGet, attendancePath)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusInternalServerError,
		wantData: marchallObj(t, map[string]string{"message": http.StatusText(http.StatusInternalServerError)}),
	}, rec)

	select {
	case <-app.ShutdownSignal():
	case <-time.After(time.Second):
		t.Fatal("shutdown was not signaled")
	}

	// plain store failures keep the server running
	app = testutil.NewServer(t, testutil.UnavailableRepository{})
	req, rec = newRequest(http.MethodGet, attendancePath)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	select {
	case sig := <-app.ShutdownSignal():
		t.Fatalf("unexpected shutdown signal %v", sig)
	default:
	}
}

func TestServer_routes(t *testing.T) {
	app := testutil.NewServer(t, nil)

	t.Run("home", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Welcome to Attendance API!", rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/students")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, map[string]string{"message": "Not Found"}),
		}, rec)
	})

	t.Run("no update", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, attendancePath, []byte(`{}`))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, rec := newRequest(http.MethodOptions, attendancePath)
		req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.True(t, strings.Contains(rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost))
	})

	t.Run("request id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, attendancePath)
		app.ServeHTTP(rec, req)
		assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
	})
}
