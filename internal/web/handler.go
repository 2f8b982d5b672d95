package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/reconcile"
	"sena-tracker/internal/service"
)

type Handler struct {
	loaderService       service.LoaderService
	fichaService        service.FichaService
	attendanceService   service.AttendanceService
	authService         service.AuthService
	apprenticeService   service.ApprenticeService
	announcementService service.AnnouncementService
	log                 *zap.Logger
}

func NewHandler(
	loaderService service.LoaderService,
	fichaService service.FichaService,
	attendanceService service.AttendanceService,
	authService service.AuthService,
	apprenticeService service.ApprenticeService,
	announcementService service.AnnouncementService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		loaderService:       loaderService,
		fichaService:        fichaService,
		attendanceService:   attendanceService,
		authService:         authService,
		apprenticeService:   apprenticeService,
		announcementService: announcementService,
		log:                 log.With(zap.String("component", "web")),
	}
}

type healthResponse struct {
	Status   string    `json:"status"`
	Source   string    `json:"source"`
	Fichas   int       `json:"fichas"`
	LoadedAt time.Time `json:"loaded_at"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.loaderService.Snapshot()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Source:   string(snap.Source),
		Fichas:   len(snap.Fichas),
		LoadedAt: snap.LoadedAt,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.authService.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// ListFichas: ?role=coordinator скрывает невидимые группы
func (h *Handler) ListFichas(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = models.RoleInstructor
	}
	writeJSON(w, http.StatusOK, h.fichaService.List(role))
}

func (h *Handler) GetFicha(w http.ResponseWriter, r *http.Request) {
	f, err := h.fichaService.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) CreateFicha(w http.ResponseWriter, r *http.Request) {
	var req createFichaRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.fichaService.Create(r.Context(), req.Number, req.Program, req.Instructor)
	if err != nil {
		if f.ID != "" {
			h.writePartial(w, r, err, f)
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	f, err := h.fichaService.ToggleVisibility(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) ReplaceApprentices(w http.ResponseWriter, r *http.Request) {
	var req apprenticesRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.fichaService.ReplaceApprentices(mux.Vars(r)["id"], req.Apprentices)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.FichaDocument
	if err := decode(r, &doc); err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := h.fichaService.AddDocument(mux.Vars(r)["id"], doc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) SaveAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.attendanceService.Save(r.Context(), mux.Vars(r)["id"], req.Date, req.Records, req.PDFBase64)
	if err != nil {
		if rec.Date != "" {
			h.writePartial(w, r, err, rec)
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) InspectApprentice(w http.ResponseWriter, r *http.Request) {
	detail, err := h.apprenticeService.Inspect(mux.Vars(r)["doc"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) SaveSubmission(w http.ResponseWriter, r *http.Request) {
	var sub models.GuideSubmission
	if err := decode(r, &sub); err != nil {
		h.writeError(w, r, err)
		return
	}
	sub, err := h.apprenticeService.SaveSubmission(mux.Vars(r)["doc"], sub)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) GuideStructure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.apprenticeService.GuideStructure())
}

func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.announcementService.List())
}

func (h *Handler) AddAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.announcementService.Add(req.Title, req.Description, req.Type)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.announcementService.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// Sync перезагружает таблицу; при ошибке остаются прежние данные
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	report, err := h.loaderService.Load(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Report: report, Skipped: report.SkippedTotal()})
}

type syncResponse struct {
	Report  reconcile.Report `json:"report"`
	Skipped int              `json:"skipped_total"`
}
