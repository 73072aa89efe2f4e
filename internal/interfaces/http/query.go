package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// pageQuery lee limit/offset con valores por defecto.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, invalidField("limit", "limit y offset deben ser enteros")
	}
	if err := validateStruct(&page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}

// uuidQuery lee un filtro opcional que debe ser UUID.
func uuidQuery(c *fiber.Ctx, key string) (string, error) {
	v := c.Query(key)
	if v == "" {
		return "", nil
	}
	canonical, ok := canonicalUUID(v)
	if !ok {
		return "", invalidField(key, "debe ser un UUID")
	}
	return canonical, nil
}

// timeQuery acepta RFC3339 o fecha simple (2006-01-02). Con endOfDay la fecha simple cubre el día completo.
func timeQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, invalidField(key, "fecha inválida, use YYYY-MM-DD o RFC3339")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func boolQuery(c *fiber.Ctx, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalidField(key, "debe ser true o false")
	}
	return b, nil
}
