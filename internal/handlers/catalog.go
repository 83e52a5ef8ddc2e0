package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studylane/studylane-backend/internal/catalog"
)

type CatalogHandler struct {
	registry *catalog.Registry
}

func NewCatalogHandler(registry *catalog.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

type departmentSummary struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// GET /api/departments
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	keys := h.registry.Departments()
	out := make([]departmentSummary, 0, len(keys))
	for _, key := range keys {
		dep, ok := h.registry.Resolve(key)
		if !ok {
			continue
		}
		skills := make([]string, 0, len(dep.Skills))
		for _, skill := range dep.Skills {
			skills = append(skills, skill.Key)
		}
		out = append(out, departmentSummary{Key: dep.Key, Name: dep.Name, Skills: skills})
	}
	RespondOK(c, gin.H{"departments": out})
}
