package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jahongirdev1/med333-sub000/config"
	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
	"github.com/jahongirdev1/med333-sub000/workflow"
)

// renderError maps the error taxonomy onto HTTP statuses. Local
// validation renders as-is (the user can fix the form), structured remote
// rejections carry their per-item breakdown, anything else stays generic.
func renderError(c *gin.Context, err error) {
	if utils.IsValidationError(err) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, workflow.ErrSessionExpired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}
	if ise, ok := remote.IsInsufficientStock(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"code":  "insufficient_stock",
			"items": ise.Items,
			"error": ise.Error(),
		})
		return
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		config.LogError(config.GetLogger(), "handlers", "renderError", "remote failure", apiErr.Status, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote system error"})
		return
	}
	config.LogError(config.GetLogger(), "handlers", "renderError", "unexpected failure", nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// scopeFor resolves the location a request operates on: an explicit
// branch_id wins, otherwise the session's branch (empty means the central
// warehouse).
func scopeFor(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	branchId, _ := utils.GetBranchIdFromContext(c.Request.Context())
	return branchId
}

/* session */

func (a *app) loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		info, err := a.sessions.Login(c.Request.Context(), input.Login, input.Password)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, info)
	}
}

func (a *app) logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.sessions.Logout(c.Request.Context()); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (a *app) sessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := utils.GetTokenFromContext(c.Request.Context())
		record, ok := a.sessions.Store().Get(token)
		if !ok {
			renderError(c, workflow.ErrSessionExpired)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"name":              record.Name,
			"role":              record.Role,
			"branch_id":         record.BranchId,
			"time_left_seconds": int64(record.TimeLeft(time.Now()).Seconds()),
		})
	}
}

func (a *app) heartbeatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := utils.GetTokenFromContext(c.Request.Context())
		record, err := a.sessions.Heartbeat(token, time.Now())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"time_left_seconds": int64(record.TimeLeft(time.Now()).Seconds()),
		})
	}
}

/* catalog items */

func (a *app) listItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := scopeFor(c, c.Query("branch_id"))
		snapshot := a.snapshots.ForScope(scope)
		if err := workflow.RefreshSnapshot(c.Request.Context(), a.client, snapshot); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": snapshot.Items()})
	}
}

func (a *app) createItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCatalogItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		item, err := a.client.CreateItem(c.Request.Context(), input)
		if err != nil {
			renderError(c, err)
			return
		}
		if err := workflow.RefreshSnapshot(c.Request.Context(), a.client, a.snapshots.ForScope(input.BranchId)); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (a *app) updateItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemType, err := models.ParseItemType(c.Query("type"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		var input models.NewCatalogItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		item, err := a.client.UpdateItem(c.Request.Context(), itemType, c.Param("id"), input)
		if err != nil {
			renderError(c, err)
			return
		}
		if err := workflow.RefreshSnapshot(c.Request.Context(), a.client, a.snapshots.ForScope(input.BranchId)); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (a *app) deleteItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemType, err := models.ParseItemType(c.Query("type"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if err := a.client.DeleteItem(c.Request.Context(), itemType, c.Param("id")); err != nil {
			renderError(c, err)
			return
		}
		scope := scopeFor(c, c.Query("branch_id"))
		if err := workflow.RefreshSnapshot(c.Request.Context(), a.client, a.snapshots.ForScope(scope)); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

/* intake */

type intakeInput struct {
	BranchId string             `json:"branch_id"`
	Lines    []models.DraftLine `json:"lines" binding:"required"`
}

func (a *app) intakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input intakeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		scope := scopeFor(c, input.BranchId)
		result, err := workflow.SubmitIntake(c.Request.Context(), a.client, a.snapshots.ForScope(scope), scope, input.Lines)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

/* dispensing */

type dispenseInput struct {
	PatientId string            `json:"patient_id" binding:"required"`
	Cart      []models.CartLine `json:"cart" binding:"required"`
}

func (a *app) dispenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input dispenseInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		employeeId, _ := utils.GetUserIdFromContext(ctx)
		scope := scopeFor(c, "")
		snapshot := a.snapshots.ForScope(scope)

		// A cold mirror cannot validate anything; seed it first.
		if snapshot.Len() == 0 {
			if err := workflow.RefreshSnapshot(ctx, a.client, snapshot); err != nil {
				renderError(c, err)
				return
			}
		}

		result, err := workflow.SubmitDispense(ctx, a.client, snapshot, input.PatientId, employeeId, input.Cart)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

/* shipments */

func (a *app) listShipmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sortOrder, err := models.ParseShipmentSortOrder(c.Query("sort"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		statusFilter, err := models.ParseShipmentStatusFilter(c.Query("status"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		scope := scopeFor(c, c.Query("branch_id"))
		shipments, err := workflow.ListShipmentView(c.Request.Context(), a.client, scope, sortOrder, statusFilter)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"shipments": shipments})
	}
}

func (a *app) createShipmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewShipment
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		shipment, err := workflow.CreateShipment(c.Request.Context(), a.client, input)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, shipment)
	}
}

type shipmentActionInput struct {
	Reason string `json:"reason"`
}

func (a *app) shipmentActionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input shipmentActionInput
		// Body is optional for accept/cancel/retry.
		_ = c.ShouldBindJSON(&input)

		action := remote.ShipmentAction(c.Param("action"))
		if err := workflow.ApplyShipmentAction(c.Request.Context(), a.client, c.Param("id"), action, input.Reason); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
