package catalog

import (
	_ "embed"
	"fmt"

	"github.com/senyabanana/trade-service/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed reject_reasons.yaml
var defaultReasons []byte

// UnknownReasonLabel выводится для кода, которого нет в справочнике.
const UnknownReasonLabel = "unknown reason"

// ReasonCatalog - справочник причин отклонения предложения.
type ReasonCatalog struct {
	reasons map[int]models.RejectedReason
	order   []int
}

// Default загружает встроенный справочник.
func Default() (*ReasonCatalog, error) {
	return Parse(defaultReasons)
}

// Parse разбирает справочник в формате YAML.
func Parse(data []byte) (*ReasonCatalog, error) {
	var list []models.RejectedReason
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse reject reasons: %w", err)
	}

	c := &ReasonCatalog{reasons: make(map[int]models.RejectedReason, len(list))}
	for _, reason := range list {
		if _, exists := c.reasons[reason.ID]; exists {
			return nil, fmt.Errorf("duplicate reject reason id %d", reason.ID)
		}
		c.reasons[reason.ID] = reason
		c.order = append(c.order, reason.ID)
	}
	return c, nil
}

// Exists проверяет, есть ли причина в справочнике.
func (c *ReasonCatalog) Exists(reasonID int) bool {
	_, ok := c.reasons[reasonID]
	return ok
}

// RequiresDetail сообщает, что для причины нужен текст с пояснением.
func (c *ReasonCatalog) RequiresDetail(reasonID int) bool {
	return c.reasons[reasonID].RequiresDetail
}

// Label возвращает текст причины.
func (c *ReasonCatalog) Label(reasonID int) string {
	if reason, ok := c.reasons[reasonID]; ok {
		return reason.Label
	}
	return UnknownReasonLabel
}

// List возвращает причины в порядке справочника.
func (c *ReasonCatalog) List() []models.RejectedReason {
	list := make([]models.RejectedReason, 0, len(c.order))
	for _, id := range c.order {
		list = append(list, c.reasons[id])
	}
	return list
}
