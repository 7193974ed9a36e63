package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccred/txbuild.attest.so/controllers"
	"github.com/daccred/txbuild.attest.so/handlers"
)

type fakeRunner struct {
	addr []string
}

func (f *fakeRunner) Run(addr ...string) error {
	f.addr = addr
	return errors.New("stopped")
}

func TestServerRun(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{name: "Default port", want: ":8080"},
		{name: "Configured port", port: "9000", want: ":9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			s := &Server{Port: tt.port}
			assert.EqualError(t, s.Run(runner), "stopped")
			assert.Equal(t, []string{tt.want}, runner.addr)
		})
	}
}

func TestRouterCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	recorder, err := handlers.NewRecorder(&handlers.Config{NetworkPassphrase: network.TestNetworkPassphrase}, mockDB, logrus.NewEntry(logrus.New()))
	require.NoError(t, err)
	r := NewRouter([]string{"http://localhost:3000"}, controllers.NewTransactionController(mockDB, recorder))

	tests := []struct {
		name   string
		origin string
		status int
	}{
		{name: "Allowed origin", origin: "http://localhost:3000", status: http.StatusNoContent},
		{name: "Foreign origin", origin: "http://evil.example", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
