package appscript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/repository"
)

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "getData", r.URL.Query().Get("action"))
		assert.Equal(t, "abc", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"fichas": [[2503412, "ADSO", "Instr", "", "", "2024-01-20", null]],
				"aprendices": [["CC", 1020304050, "Ana", "R", "Ana R", "", "2503412"]],
				"evaluaciones": [],
				"asistencia": [["2024-05-20", "2503412", "", "", {"1020304050": "PRESENT"}]]
			}
		}`))
	}))
	defer srv.Close()

	repo := NewAppScriptRepository(srv.URL+"?key=abc", 0, zap.NewNop())
	rows, err := repo.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, rows.Fichas, 1)
	assert.Equal(t, "2503412", rows.Fichas[0][0])
	assert.Equal(t, "", rows.Fichas[0][6])
	assert.Equal(t, "1020304050", rows.Apprentices[0][1])
	assert.Empty(t, rows.Evaluations)
	assert.Equal(t, `{"1020304050":"PRESENT"}`, rows.Attendance[0][4])
}

func TestLoadRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"Hoja no encontrada"}`))
	}))
	defer srv.Close()

	_, err := NewAppScriptRepository(srv.URL, 0, zap.NewNop()).Load(context.Background())

	var remote *repository.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "Hoja no encontrada", remote.Message)
}

func TestLoadHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAppScriptRepository(srv.URL, 0, zap.NewNop()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLoadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	_, err := NewAppScriptRepository(srv.URL, 20*time.Millisecond, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}

func TestSaveAttendance(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success","evidenceUrl":"https://drive.example.com/e.pdf"}`))
	}))
	defer srv.Close()

	repo := NewAppScriptRepository(srv.URL, 0, zap.NewNop())
	res, err := repo.SaveAttendance(context.Background(), repository.AttendanceSave{
		Date:      "2024-05-20",
		FichaID:   "2503412",
		Records:   map[string]models.AttendanceStatus{"1": models.AttendancePresent},
		PDFBase64: "JVBERi0=",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://drive.example.com/e.pdf", res.EvidenceURL)
	assert.Equal(t, "saveAttendance", got["action"])
	assert.Equal(t, "2503412", got["fichaId"])
	assert.Equal(t, "JVBERi0=", got["pdfBase64"])
	assert.Equal(t, map[string]any{"1": "PRESENT"}, got["records"])
}

func TestCreateFichaRemoteFailure(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"error","message":"La ficha ya existe"}`))
	}))
	defer srv.Close()

	err := NewAppScriptRepository(srv.URL, 0, zap.NewNop()).CreateFicha(context.Background(), repository.NewFicha{
		Number: "2503412", Program: "ADSO", Instructor: "Instr",
	})

	var remote *repository.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, repository.ActionCreateFicha, remote.Action)
	assert.Equal(t, "createFicha", got["action"])
	assert.Equal(t, "2503412", got["number"])
	assert.Equal(t, "Instr", got["instructor"])
}
