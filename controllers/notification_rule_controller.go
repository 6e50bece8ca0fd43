package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/david801380511/timeflow/models"
	"github.com/david801380511/timeflow/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ruleRequest struct {
	Name               string  `json:"name" binding:"required,max=100"`
	RuleType           string  `json:"rule_type" binding:"required"`
	IsEnabled          *bool   `json:"is_enabled"`
	TriggerTime        *int    `json:"trigger_time" binding:"required"`
	TriggerUnit        string  `json:"trigger_unit" binding:"required"`
	MessageTemplate    string  `json:"message_template" binding:"required"`
	NotificationMethod string  `json:"notification_method"`
	Priority           string  `json:"priority"`
	OnlyOnDays         *string `json:"only_on_days"`
	TimeRangeStart     *int    `json:"time_range_start"`
	TimeRangeEnd       *int    `json:"time_range_end"`
}

func (r *ruleRequest) validate() (string, bool) {
	if !utils.ValidRuleType(r.RuleType) {
		return "invalid rule_type", false
	}
	if *r.TriggerTime < 0 {
		return "trigger_time must be non-negative", false
	}
	if !utils.ValidTriggerUnit(r.TriggerUnit) {
		return "invalid trigger_unit", false
	}
	if r.Priority != "" && !utils.ValidPriority(r.Priority) {
		return "invalid priority", false
	}
	if r.OnlyOnDays != nil && *r.OnlyOnDays != "" && !utils.ValidDayList(*r.OnlyOnDays) {
		return "invalid only_on_days", false
	}
	if r.TimeRangeStart != nil && !utils.ValidHour(*r.TimeRangeStart) {
		return "time_range_start must be 0-23", false
	}
	if r.TimeRangeEnd != nil && !utils.ValidHour(*r.TimeRangeEnd) {
		return "time_range_end must be 0-23", false
	}
	return "", true
}

// GetNotificationRules lists the caller's rules.
func GetNotificationRules(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var rules []models.NotificationRule
	if err := db.Where("user_id = ?", uid).Order("rule_id ASC").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rules})
}

// CreateNotificationRule adds a rule for the caller.
func CreateNotificationRule(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	method := req.NotificationMethod
	if method == "" {
		method = "in_app"
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	now := time.Now()
	rule := models.NotificationRule{
		UserID:             uid,
		Name:               utils.SanitizeInput(req.Name),
		RuleType:           req.RuleType,
		IsEnabled:          enabled,
		TriggerTime:        *req.TriggerTime,
		TriggerUnit:        req.TriggerUnit,
		MessageTemplate:    req.MessageTemplate,
		NotificationMethod: method,
		Priority:           priority,
		OnlyOnDays:         req.OnlyOnDays,
		TimeRangeStart:     req.TimeRangeStart,
		TimeRangeEnd:       req.TimeRangeEnd,
		CreateAt:           now,
		UpdateAt:           now,
	}

	if err := db.Create(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// UpdateNotificationRule rewrites a rule's configuration in place.
func UpdateNotificationRule(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var rule models.NotificationRule
	if err := db.Where("rule_id = ? AND user_id = ?", id, uid).First(&rule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := req.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	rule.Name = utils.SanitizeInput(req.Name)
	rule.RuleType = req.RuleType
	if req.IsEnabled != nil {
		rule.IsEnabled = *req.IsEnabled
	}
	rule.TriggerTime = *req.TriggerTime
	rule.TriggerUnit = req.TriggerUnit
	rule.MessageTemplate = req.MessageTemplate
	if req.NotificationMethod != "" {
		rule.NotificationMethod = req.NotificationMethod
	}
	if req.Priority != "" {
		rule.Priority = req.Priority
	}
	rule.OnlyOnDays = req.OnlyOnDays
	rule.TimeRangeStart = req.TimeRangeStart
	rule.TimeRangeEnd = req.TimeRangeEnd
	rule.UpdateAt = time.Now()

	if err := db.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// DeleteNotificationRule removes a rule together with the notifications
// it generated.
func DeleteNotificationRule(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var rule models.NotificationRule
	if err := db.Where("rule_id = ? AND user_id = ?", id, uid).First(&rule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rule_id = ?", rule.RuleID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rule).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
