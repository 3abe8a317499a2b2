//go:build ignore

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bluestock/ipotrack/config"
	"github.com/bluestock/ipotrack/database"
	"github.com/bluestock/ipotrack/models"
	"github.com/bluestock/ipotrack/services"
)

func main() {
	fmt.Printf("🏥 IPO Tracker Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	// Quick tests
	healthScore := 0
	totalTests := 3

	cfg := config.LoadConfig()
	ctx := context.Background()

	// Test 1: Database
	fmt.Print("🗄️  Database: ")
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Println("✅ OK")
		healthScore++
	}
	defer database.Close()

	// Test 2: Record store
	fmt.Print("📊 Record Store: ")
	ipoService := services.NewIPOService(database.DB)
	if ipos, err := ipoService.GetIPOs(ctx, models.IPOFilter{}); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Printf("✅ OK (%d IPOs)\n", len(ipos))
		healthScore++
	}

	// Test 3: Analytics pipeline
	fmt.Print("📈 Analytics: ")
	analyticsService := services.NewAnalyticsService(database.DB, ipoService)
	if report, err := analyticsService.GetAnalytics(ctx); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Printf("✅ OK (%d IPOs, %d applications)\n", report.TotalIPOs, report.TotalApplications)
		healthScore++
	}

	// Overall health
	fmt.Println(strings.Repeat("-", 50))
	healthPercent := float64(healthScore) / float64(totalTests) * 100

	if healthScore == totalTests {
		fmt.Printf("🎉 SYSTEM HEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	} else if healthScore >= totalTests/2 {
		fmt.Printf("⚠️  SYSTEM DEGRADED: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	} else {
		fmt.Printf("❌ SYSTEM UNHEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	}

	fmt.Printf("⏰ Check completed at: %s\n", time.Now().Format("15:04:05"))
}
