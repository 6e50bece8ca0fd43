package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/david801380511/timeflow/models"
	"github.com/david801380511/timeflow/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type preferenceRequest struct {
	NotificationsEnabled      *bool `json:"notifications_enabled"`
	QuietHoursEnabled         *bool `json:"quiet_hours_enabled"`
	QuietHoursStart           *int  `json:"quiet_hours_start"`
	QuietHoursEnd             *int  `json:"quiet_hours_end"`
	InAppEnabled              *bool `json:"in_app_enabled"`
	EmailEnabled              *bool `json:"email_enabled"`
	DeadlineNotifications     *bool `json:"deadline_notifications"`
	StudySessionNotifications *bool `json:"study_session_notifications"`
	BreakNotifications        *bool `json:"break_notifications"`
	AchievementNotifications  *bool `json:"achievement_notifications"`
	StreakNotifications       *bool `json:"streak_notifications"`
}

// loadOrCreatePreference returns the user's preference row, creating the
// defaults on first access.
func loadOrCreatePreference(db *gorm.DB, userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := db.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.DefaultNotificationPreference(userID)
		if err := db.Create(&pref).Error; err != nil {
			return nil, err
		}
		return &pref, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// GetNotificationPreferences returns the caller's preference row.
func GetNotificationPreferences(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pref, err := loadOrCreatePreference(db, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}

// UpdateNotificationPreferences applies the fields present in the payload.
func UpdateNotificationPreferences(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.QuietHoursStart != nil && !utils.ValidHour(*req.QuietHoursStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quiet_hours_start must be 0-23"})
		return
	}
	if req.QuietHoursEnd != nil && !utils.ValidHour(*req.QuietHoursEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quiet_hours_end must be 0-23"})
		return
	}

	pref, err := loadOrCreatePreference(db, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.NotificationsEnabled != nil {
		pref.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.QuietHoursEnabled != nil {
		pref.QuietHoursEnabled = *req.QuietHoursEnabled
	}
	if req.QuietHoursStart != nil {
		pref.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *req.QuietHoursEnd
	}
	if req.InAppEnabled != nil {
		pref.InAppEnabled = *req.InAppEnabled
	}
	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if req.DeadlineNotifications != nil {
		pref.DeadlineNotifications = *req.DeadlineNotifications
	}
	if req.StudySessionNotifications != nil {
		pref.StudySessionNotifications = *req.StudySessionNotifications
	}
	if req.BreakNotifications != nil {
		pref.BreakNotifications = *req.BreakNotifications
	}
	if req.AchievementNotifications != nil {
		pref.AchievementNotifications = *req.AchievementNotifications
	}
	if req.StreakNotifications != nil {
		pref.StreakNotifications = *req.StreakNotifications
	}
	pref.UpdateAt = time.Now()

	if err := db.Save(pref).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": pref})
}
