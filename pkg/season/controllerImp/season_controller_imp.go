package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/labstack/echo/v4"

	"paprika/pkg/calendar"
	"paprika/pkg/middleware"
	"paprika/pkg/season/repository"
	"paprika/pkg/season/service"
)

// Signals tell the two 409 responses apart: SignalSeasonComplete when
// every stage is already set, SignalExists when the season is a duplicate.
const (
	SignalSeasonComplete = "season_complete"
	SignalExists         = "exists"
)

// badRequest is a malformed request that never reached the service.
type badRequest string

func (e badRequest) Error() string { return string(e) }

type SeasonCtrl struct{ svc service.SeasonService }

func New(svc service.SeasonService) *SeasonCtrl { return &SeasonCtrl{svc} }

type stageReq struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type editReq struct {
	PrickingStart string `json:"prickingStart"`
	PrickingEnd   string `json:"prickingEnd"`
	PlantingStart string `json:"plantingStart"`
	PlantingEnd   string `json:"plantingEnd"`
	HarvestStart  string `json:"harvestStart"`
	HarvestEnd    string `json:"harvestEnd"`
}

func (r editReq) value(f calendar.Field) string {
	switch f {
	case calendar.FieldPrickingStart:
		return r.PrickingStart
	case calendar.FieldPrickingEnd:
		return r.PrickingEnd
	case calendar.FieldPlantingStart:
		return r.PlantingStart
	case calendar.FieldPlantingEnd:
		return r.PlantingEnd
	case calendar.FieldHarvestStart:
		return r.HarvestStart
	case calendar.FieldHarvestEnd:
		return r.HarvestEnd
	}
	return ""
}

type seasonReq struct {
	FarmerID   uint `json:"farmerId"`
	SeasonYear int  `json:"seasonYear"`
	editReq
}

func (h *SeasonCtrl) List(c echo.Context) error {
	farmerID, _ := middleware.Farmer(c)
	views, err := h.svc.List(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *SeasonCtrl) Get(c echo.Context) error {
	farmerID, _ := middleware.Farmer(c)
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, err)
	}
	v, err := h.svc.Get(c.Request().Context(), farmerID, year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SeasonCtrl) AddStage(c echo.Context) error {
	farmerID, _ := middleware.Farmer(c)
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req stageReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("bad json"))
	}
	var in calendar.StageInput
	if in.StartDate, err = optionalDate(req.StartDate); err != nil {
		return writeError(c, err)
	}
	if in.EndDate, err = optionalDate(req.EndDate); err != nil {
		return writeError(c, err)
	}

	v, err := h.svc.AddNextStage(c.Request().Context(), farmerID, year, in)
	if errors.Is(err, calendar.ErrSeasonComplete) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":  err.Error(),
			"signal": SignalSeasonComplete,
			"season": v,
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SeasonCtrl) Edit(c echo.Context) error {
	farmerID, _ := middleware.Farmer(c)
	year, err := yearParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req editReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("bad json"))
	}
	var edits calendar.Edits
	for _, f := range calendar.Fields() {
		d, err := optionalDate(req.value(f))
		if err != nil {
			return writeError(c, err)
		}
		if d != nil {
			edits.Set(f, *d)
		}
	}
	v, err := h.svc.BulkEdit(c.Request().Context(), farmerID, year, edits)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *SeasonCtrl) Create(c echo.Context) error {
	rec, err := bindSeason(c)
	if err != nil {
		return writeError(c, err)
	}
	created, err := h.svc.Create(c.Request().Context(), rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *SeasonCtrl) Find(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return writeError(c, badRequest("invalid season id"))
	}
	rec, err := h.svc.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *SeasonCtrl) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return writeError(c, badRequest("invalid season id"))
	}
	rec, err := bindSeason(c)
	if err != nil {
		return writeError(c, err)
	}
	rec.ID = uint(id)
	updated, err := h.svc.Update(c.Request().Context(), rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// bindSeason reads a full season body.
func bindSeason(c echo.Context) (calendar.Record, error) {
	var req seasonReq
	if err := c.Bind(&req); err != nil {
		return calendar.Record{}, badRequest("bad json")
	}
	rec := calendar.NewRecord(req.FarmerID, req.SeasonYear)
	for _, f := range calendar.Fields() {
		d, err := optionalDate(req.value(f))
		if err != nil {
			return calendar.Record{}, err
		}
		if d != nil {
			rec.Set(f, *d)
		}
	}
	return rec, nil
}

func yearParam(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		return 0, badRequest("invalid season year")
	}
	return year, nil
}

func optionalDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func writeError(c echo.Context, err error) error {
	var ve *calendar.ValidationError
	var br badRequest
	switch {
	case errors.As(err, &br):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": br.Error()})
	case errors.As(err, &ve):
		body := map[string]any{"error": ve.Error(), "kind": ve.Kind}
		if ve.Stage != calendar.StageNone {
			body["stage"] = ve.Stage
		}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		if ve.Conflict != calendar.StageNone {
			body["conflict"] = ve.Conflict
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, calendar.ErrSeasonComplete):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error(), "signal": SignalSeasonComplete})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error(), "signal": SignalExists})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, service.ErrYearImmutable), errors.Is(err, service.ErrInvalidKey),
		errors.Is(err, service.ErrClearsStage):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
