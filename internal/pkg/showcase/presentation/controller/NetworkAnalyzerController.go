package controller

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NetworkAnalyzerController serves the network analyzer demo with
// pseudo-random traffic data. No capture happens; the numbers only need to
// look plausible on a dashboard.
type NetworkAnalyzerController struct{}

func NewNetworkAnalyzerController() *NetworkAnalyzerController {
	return &NetworkAnalyzerController{}
}

var protocols = []string{"HTTP", "HTTPS", "DNS", "TCP", "UDP", "FTP"}
var severities = []string{"Low", "Medium", "High"}

func (ctl *NetworkAnalyzerController) Stats() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"total_packets":      rand.Intn(10000) + 1000,
				"total_bytes":        rand.Intn(100000000) + 10000000,
				"threats_detected":   rand.Intn(50),
				"active_connections": rand.Intn(100) + 10,
				"bandwidth_bps":      rand.Intn(1000000) + 100000,
				"monitoring":         false,
				"interfaces":         []string{"eth0", "wlan0", "lo"},
				"uptime":             rand.Intn(86400) + 3600,
			},
		})
	}
}

type captureRequest struct {
	Action      string `json:"action" binding:"required"`
	Interface   string `json:"interface"`
	Duration    int    `json:"duration"`
	TrafficType string `json:"traffic_type"`
}

func (ctl *NetworkAnalyzerController) Capture() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req captureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Capture failed"})
			return
		}

		switch req.Action {
		case "capture":
			ctl.capture(c, req)
		case "analyze":
			ctl.analyze(c, req)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid action"})
		}
	}
}

func (ctl *NetworkAnalyzerController) capture(c *gin.Context, req captureRequest) {
	packets := make([]gin.H, 0, 50)
	totalBytes := 0
	threatsDetected := 0
	for i := 0; i < 50; i++ {
		size := rand.Intn(4096) + 64
		totalBytes += size

		threats := []gin.H{}
		threatLevel := "None"
		if rand.Float64() > 0.8 {
			severity := severities[rand.Intn(len(severities))]
			threats = append(threats, gin.H{
				"type":        "suspicious_activity",
				"description": "Unusual traffic pattern detected",
				"severity":    severity,
			})
			threatLevel = severity
			threatsDetected++
		}

		packets = append(packets, gin.H{
			"id":          fmt.Sprintf("packet_%d", i+1),
			"timestamp":   time.Now().Add(-time.Duration(i) * time.Second).UTC().Format(time.RFC3339),
			"source":      fmt.Sprintf("192.168.1.%d", rand.Intn(255)),
			"destination": fmt.Sprintf("%d.%d.%d.%d", rand.Intn(255), rand.Intn(255), rand.Intn(255), rand.Intn(255)),
			"protocol":    protocols[rand.Intn(len(protocols))],
			"size":        size,
			"threats":     threats,
			"threat_level": threatLevel,
			"source_port": rand.Intn(65535),
			"dest_port":   rand.Intn(65535),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": gin.H{
			"packets": packets,
			"capture_info": gin.H{
				"interface": req.Interface,
				"duration":  req.Duration,
				"statistics": gin.H{
					"total_packets":      len(packets),
					"total_bytes":        totalBytes,
					"threats_detected":   threatsDetected,
					"active_connections": rand.Intn(50) + 10,
					"bandwidth_bps":      rand.Intn(1000000) + 100000,
					"monitoring":         true,
				},
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
}

func (ctl *NetworkAnalyzerController) analyze(c *gin.Context, req captureRequest) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result": gin.H{
			"traffic_type": req.TrafficType,
			"analysis_results": gin.H{
				"total_flows":        rand.Intn(1000) + 100,
				"suspicious_flows":   rand.Intn(50),
				"protocols_detected": []string{"HTTP", "HTTPS", "DNS", "TCP", "UDP"},
				"top_talkers": []gin.H{
					{"ip": "192.168.1.100", "bytes": 1024000, "packets": 500},
					{"ip": "192.168.1.101", "bytes": 512000, "packets": 250},
				},
			},
		},
	})
}
