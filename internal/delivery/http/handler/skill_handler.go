package handler

import (
	"encoding/json"
	"errors"
	"strconv"

	"skillstack/internal/delivery/http/dto"
	"skillstack/internal/domain/skill"
	"skillstack/internal/pkg/response"
	"skillstack/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

// RegisterRoutes mounts the record routes on r. guard runs before every
// mutating route; nil means writes are open.
func (h *SkillHandler) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	if r == nil {
		return
	}
	if guard == nil {
		guard = passThrough
	}

	r.Get("/skills", h.List)
	r.Post("/skills", guard, h.Create)
	r.Put("/skills/:id", guard, h.Update)
	r.Delete("/skills/:id", guard, h.Delete)
	r.Get("/progress-distribution", h.ProgressDistribution)
	r.Get("/insights", h.Insights)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return toAppError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewSkillListResponse(items))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	p, err := decodeSkillPatch(c.Body())
	if err != nil {
		return err
	}

	created, err := h.uc.CreateSkill(c.Context(), p)
	if err != nil {
		return toAppError(err)
	}
	return response.JSON(c, fiber.StatusCreated, dto.NewSkillResponse(created))
}

func (h *SkillHandler) Update(c fiber.Ctx) error {
	id, ok := skillID(c)
	if !ok {
		return toAppError(usecase.ErrSkillNotFound)
	}

	p, err := decodeSkillPatch(c.Body())
	if err != nil {
		return err
	}

	updated, err := h.uc.UpdateSkill(c.Context(), id, p)
	if err != nil {
		return toAppError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewSkillResponse(updated))
}

func (h *SkillHandler) Delete(c fiber.Ctx) error {
	id, ok := skillID(c)
	if !ok {
		return toAppError(usecase.ErrSkillNotFound)
	}

	if err := h.uc.DeleteSkill(c.Context(), id); err != nil {
		return toAppError(err)
	}
	return response.NoContent(c)
}

func (h *SkillHandler) ProgressDistribution(c fiber.Ctx) error {
	dist, err := h.uc.ProgressDistribution(c.Context())
	if err != nil {
		return toAppError(err)
	}
	if dist == nil {
		dist = skill.Distribution{}
	}
	return response.JSON(c, fiber.StatusOK, dist)
}

func (h *SkillHandler) Insights(c fiber.Ctx) error {
	in, err := h.uc.Insights(c.Context())
	if err != nil {
		return toAppError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewInsightsResponse(in))
}

// skillID parses the path id. Anything that is not a positive integer cannot
// name a record.
func skillID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeSkillPatch(body []byte) (skill.Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return skill.Patch{}, invalidBody("request body must be a JSON object")
	}

	p, err := skill.DecodePatch(raw)
	if err != nil {
		var fe *skill.FieldError
		if errors.As(err, &fe) {
			return skill.Patch{}, invalidBody(fe.Error())
		}
		return skill.Patch{}, invalidBody(err.Error())
	}
	return p, nil
}
