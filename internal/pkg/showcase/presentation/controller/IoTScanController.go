package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// IoTScanController serves the IoT security demo: canned device inventories
// and assessments. No packets leave this process; the data below is the
// demo's fixture set.
type IoTScanController struct{}

func NewIoTScanController() *IoTScanController { return &IoTScanController{} }

type scanRequest struct {
	NetworkRange string `json:"networkRange"`
	ScanType     string `json:"scanType"`
	MaxThreads   int    `json:"maxThreads"`
}

func mockDevices() []gin.H {
	now := time.Now().UTC().Format(time.RFC3339)
	return []gin.H{
		{
			"id": "device_001", "name": "Smart Thermostat", "ip": "192.168.1.101",
			"mac": "00:1B:44:11:3A:B7", "manufacturer": "Nest Labs", "device_type": "IoT Sensor",
			"model": "Nest Learning Thermostat", "firmware": "5.9.3", "last_seen": now,
			"status": "online", "open_ports": []int{80, 443, 8080},
			"services": []gin.H{
				{"port": 80, "protocol": "HTTP", "service": "Web Interface", "version": "1.0",
					"banner": "Nest Thermostat Web Interface"},
			},
			"vulnerabilities": []gin.H{
				{"type": "Weak Authentication", "severity": "Medium",
					"description": "Default credentials detected", "solution": "Change default password",
					"exploitable": true},
			},
			"security_score": 65, "encryption": "WPA2", "authentication": "Default",
		},
		{
			"id": "device_002", "name": "Security Camera", "ip": "192.168.1.102",
			"mac": "00:1B:44:11:3A:B8", "manufacturer": "Ring", "device_type": "Security Camera",
			"model": "Ring Doorbell Pro", "firmware": "1.4.26", "last_seen": now,
			"status": "online", "open_ports": []int{554, 80, 443},
			"services": []gin.H{
				{"port": 554, "protocol": "RTSP", "service": "Video Stream", "version": "2.0",
					"banner": "Ring RTSP Server"},
			},
			"vulnerabilities": []gin.H{},
			"security_score":  85, "encryption": "AES-256", "authentication": "Strong",
		},
	}
}

func (ctl *IoTScanController) Scan() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Scan failed"})
			return
		}

		devices := mockDevices()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result": gin.H{
				"devices": devices,
				"scan_info": gin.H{
					"scan_results": gin.H{
						"total_devices": len(devices), "vulnerable_devices": 1,
						"critical_vulns": 0, "high_vulns": 0, "medium_vulns": 1, "low_vulns": 0,
						"average_security_score": 75, "scan_duration": 45,
					},
					"network_range": req.NetworkRange,
					"scan_type":     req.ScanType,
					"timestamp":     time.Now().UTC().Format(time.RFC3339),
				},
			},
		})
	}
}

type analyzeRequest struct {
	DeviceIP string `json:"deviceIp" binding:"required"`
}

func (ctl *IoTScanController) Analyze() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Analysis failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result": gin.H{
				"device_ip":          req.DeviceIP,
				"analysis_timestamp": time.Now().UTC().Format(time.RFC3339),
				"security_assessment": gin.H{
					"overall_score": 72,
					"risk_level":    "Medium",
					"recommendations": []string{
						"Update firmware to latest version",
						"Change default credentials",
						"Enable WPA3 encryption if supported",
					},
				},
				"detailed_findings": gin.H{
					"open_ports": []int{80, 443, 8080},
					"services":   []string{"HTTP", "HTTPS", "Management Interface"},
					"vulnerabilities": []gin.H{
						{"type": "Outdated Firmware", "severity": "Medium",
							"description": "Device is running outdated firmware version"},
					},
				},
			},
		})
	}
}

type exportRequest struct {
	Devices     any `json:"devices"`
	ScanResults any `json:"scanResults"`
}

func (ctl *IoTScanController) Export() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Export failed"})
			return
		}

		report := gin.H{
			"report_metadata": gin.H{
				"generated_at": time.Now().UTC().Format(time.RFC3339),
				"report_type":  "IoT Security Assessment",
				"version":      "1.0",
			},
			"scan_summary": req.ScanResults,
			"devices":      req.Devices,
			"recommendations": []string{
				"Implement network segmentation for IoT devices",
				"Regular firmware updates for all devices",
				"Use strong authentication mechanisms",
				"Monitor network traffic for anomalies",
			},
		}

		filename := fmt.Sprintf("iot_security_report_%s.json", time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.IndentedJSON(http.StatusOK, report)
	}
}
