package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/upskillhq/skillmatch/internal/api/dto"
	"github.com/upskillhq/skillmatch/internal/engine/domain"
)

// GetOrganizationSnapshot handles GET /api/v1/companies/:company_id/snapshots/organization
func (h *SnapshotHandler) GetOrganizationSnapshot(c *gin.Context) {
	companyID := c.Param("company_id")

	snap, err := h.store.GetOrganizationSnapshot(c.Request.Context(), companyID)
	if err != nil {
		h.respondSnapshotError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrganizationSnapshotResponse{
		CompanyID:              snap.CompanyID,
		BaselineID:             snap.BaselineID,
		MarketCoverageRate:     snap.MarketCoverageRate,
		IndustryAlignmentIndex: snap.IndustryAlignmentIndex,
		CriticalSkillsCount:    snap.CriticalSkillsCount,
		ModerateSkillsCount:    snap.ModerateSkillsCount,
		TopMissingSkills:       snap.TopMissingSkills,
		LastComputedAt:         snap.LastComputedAt.Format(time.RFC3339),
	})
}

// GetDepartmentSnapshot handles GET /api/v1/companies/:company_id/snapshots/departments/:department
func (h *SnapshotHandler) GetDepartmentSnapshot(c *gin.Context) {
	companyID := c.Param("company_id")
	department := c.Param("department")

	snap, err := h.store.GetDepartmentSnapshot(c.Request.Context(), companyID, department)
	if err != nil {
		h.respondSnapshotError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DepartmentSnapshotResponse{
		CompanyID:      snap.CompanyID,
		Department:     snap.Department,
		BaselineID:     snap.BaselineID,
		AvgMarketMatch: snap.AvgMarketMatch,
		CriticalGaps:   snap.CriticalGaps,
		EmergingGaps:   snap.EmergingGaps,
		TopGaps:        snap.TopGaps,
		AnalyzedCount:  snap.AnalyzedCount,
		EmployeeCount:  snap.EmployeeCount,
		LastComputedAt: snap.LastComputedAt.Format(time.RFC3339),
	})
}

// GetEmployeeSnapshot handles GET /api/v1/companies/:company_id/snapshots/employees/:employee_id
func (h *SnapshotHandler) GetEmployeeSnapshot(c *gin.Context) {
	companyID := c.Param("company_id")
	employeeID := c.Param("employee_id")

	snap, err := h.store.GetEmployeeSnapshot(c.Request.Context(), companyID, employeeID)
	if err != nil {
		h.respondSnapshotError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EmployeeSnapshotResponse{
		CompanyID:        snap.CompanyID,
		EmployeeID:       snap.EmployeeID,
		BaselineID:       snap.BaselineID,
		MatchPercentage:  snap.MatchPercentage,
		TopMissingSkills: snap.TopMissingSkills,
		SkillsBySource:   snap.SkillsBySource,
		LastComputedAt:   snap.LastComputedAt.Format(time.RFC3339),
	})
}

func (h *SnapshotHandler) respondSnapshotError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Snapshot not computed yet",
		})
		return
	}

	h.logger.Error("Failed to load snapshot", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Failed to load snapshot",
	})
}
