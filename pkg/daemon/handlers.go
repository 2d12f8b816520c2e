package daemon

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/battwarn/battwarn/pkg/events"
	"github.com/battwarn/battwarn/pkg/power"
	"github.com/battwarn/battwarn/pkg/version"
)

// StatusResponse is what GET /status returns.
type StatusResponse struct {
	power.Status
	WarningVisible bool `json:"warningVisible"`
	Threshold      int  `json:"threshold"`
}

// ConfigResponse is what GET /config returns.
type ConfigResponse struct {
	CheckIntervalSeconds int    `json:"checkIntervalSeconds"`
	Threshold            int    `json:"threshold"`
	ImagePath            string `json:"imagePath"`
}

func getStatus(c *gin.Context) {
	status, err := provider.Sample()
	if err != nil {
		logrus.Errorf("getStatus sample failed: %v", err)
		c.IndentedJSON(http.StatusServiceUnavailable, err.Error())
		_ = c.AbortWithError(http.StatusServiceUnavailable, err)
		return
	}

	c.IndentedJSON(http.StatusOK, StatusResponse{
		Status:         status,
		WarningVisible: ctrl.Visible(),
		Threshold:      conf.Threshold(),
	})
}

func getConfig(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, ConfigResponse{
		CheckIntervalSeconds: int(conf.CheckInterval().Seconds()),
		Threshold:            conf.Threshold(),
		ImagePath:            conf.ImagePath(),
	})
}

func setThreshold(c *gin.Context) {
	var t int
	if err := c.BindJSON(&t); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := conf.SetThreshold(t); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	logrus.Infof("set warning threshold to %d%%", t)

	// Evaluate immediately instead of waiting out the current interval.
	mon.Tick()

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set warning threshold to %d%%", t))
}

func setInterval(c *gin.Context) {
	var secs int
	if err := c.BindJSON(&secs); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := conf.SetCheckInterval(time.Duration(secs) * time.Second); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	logrus.Infof("set check interval to %ds", secs)

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set check interval to %ds", secs))
}

func postDismiss(c *gin.Context) {
	if !ctrl.Visible() {
		c.IndentedJSON(http.StatusOK, "no warning visible")
		return
	}

	logrus.Info("warning dismissed via api")
	hub.Publish(events.WarningDismissed, events.WarningDismissedEvent{
		Reason: events.ReasonUser,
		Ts:     time.Now().Unix(),
	})
	ctrl.Close()

	c.IndentedJSON(http.StatusOK, "ok")
}

func getEvents(c *gin.Context) {
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
