// Package appscript talks to the spreadsheet web app: one GET for the
// data load, JSON POSTs for the two save actions.
package appscript

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sena-tracker/internal/repository"
	"sena-tracker/internal/sheet"
)

const maxErrorBodySize = 4096

type appScriptRepository struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewAppScriptRepository. timeout 0 means no client timeout; callers
// can still bound a call with the context.
func NewAppScriptRepository(endpoint string, timeout time.Duration, log *zap.Logger) repository.SheetRepository {
	return &appScriptRepository{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With(zap.String("component", "appscript")),
	}
}

func (r *appScriptRepository) Load(ctx context.Context) (sheet.RowSets, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return sheet.RowSets{}, errors.Wrap(err, "parse endpoint")
	}
	q := u.Query()
	q.Set("action", repository.ActionGetData)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return sheet.RowSets{}, errors.Wrap(err, "create request")
	}

	var env sheet.LoadEnvelope
	if err := r.do(req, &env); err != nil {
		return sheet.RowSets{}, errors.Wrap(err, repository.ActionGetData)
	}
	if env.Status != sheet.StatusSuccess {
		return sheet.RowSets{}, &repository.RemoteError{Action: repository.ActionGetData, Status: env.Status, Message: env.Message}
	}
	if env.Data == nil {
		return sheet.RowSets{}, nil
	}

	rows := env.Data.RowSets()
	r.log.Debug("данные получены от скрипта",
		zap.Int("fichas", len(rows.Fichas)),
		zap.Int("aprendices", len(rows.Apprentices)),
		zap.Int("evaluaciones", len(rows.Evaluations)),
		zap.Int("asistencia", len(rows.Attendance)),
	)
	return rows, nil
}

func (r *appScriptRepository) CreateFicha(ctx context.Context, ficha repository.NewFicha) error {
	payload := struct {
		Action string `json:"action"`
		repository.NewFicha
	}{repository.ActionCreateFicha, ficha}

	_, err := r.post(ctx, repository.ActionCreateFicha, payload)
	return err
}

func (r *appScriptRepository) SaveAttendance(ctx context.Context, save repository.AttendanceSave) (repository.SaveResult, error) {
	payload := struct {
		Action string `json:"action"`
		repository.AttendanceSave
	}{repository.ActionSaveAttendance, save}

	env, err := r.post(ctx, repository.ActionSaveAttendance, payload)
	if err != nil {
		return repository.SaveResult{}, err
	}
	return repository.SaveResult{EvidenceURL: env.EvidenceURL}, nil
}

func (r *appScriptRepository) post(ctx context.Context, action string, payload any) (sheet.SaveEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return sheet.SaveEnvelope{}, errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return sheet.SaveEnvelope{}, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	var env sheet.SaveEnvelope
	if err := r.do(req, &env); err != nil {
		return sheet.SaveEnvelope{}, errors.Wrap(err, action)
	}
	if !env.OK() {
		return env, &repository.RemoteError{Action: action, Status: env.Status, Message: env.Message}
	}
	return env, nil
}

func (r *appScriptRepository) do(req *http.Request, out any) error {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return errors.Errorf("store returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
