package handlers

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"cafefresco/internal/models"
)

// sumTotalAmount runs a single $group over orders matching filter and
// returns the summed totalAmount, 0 when nothing matches.
func sumTotalAmount(ctx context.Context, db *mongo.Database, filter bson.M) (float64, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}},
	}

	cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	type row struct {
		Total float64 `bson:"total"`
	}
	rows, err := decodeAll[row](ctx, cursor)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// startOfWeek returns midnight of the most recent Sunday.
func startOfWeek(now time.Time) time.Time {
	day := now.AddDate(0, 0, -int(now.Weekday()))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

// Earnings reports paid-order revenue for the current week, month and year.
func Earnings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/earning"
		defer handlePanic(c, route)

		now := time.Now()
		endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		ranges := []struct {
			key   string
			start time.Time
		}{
			{"month", monthStart},
			{"week", startOfWeek(now)},
			{"year", yearStart},
		}

		out := gin.H{}
		for _, r := range ranges {
			filter := bson.M{
				"paymentStatus": models.PaymentStatusPaid,
				"createdAt":     bson.M{"$gte": r.start, "$lte": endOfToday},
			}
			total, err := sumTotalAmount(ctx, db, filter)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "Error fetching earnings")
				return
			}
			out[r.key] = total
		}

		c.JSON(http.StatusOK, out)
	}
}

// Dashboard returns the headline counters for the admin landing page.
func Dashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/dashboard"
		defer handlePanic(c, route)

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		monthEnd := monthStart.AddDate(0, 1, 0)
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		yearEnd := yearStart.AddDate(1, 0, 0)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		totalEarnings, err := sumTotalAmount(ctx, db, bson.M{"paymentStatus": models.PaymentStatusPaid})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching dashboard data")
			return
		}

		orders := db.Collection("orders")

		completed, err := orders.CountDocuments(ctx, bson.M{"orderStatus": models.OrderStatusCompleted})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching dashboard data")
			return
		}
		pending, err := orders.CountDocuments(ctx, bson.M{"orderStatus": models.OrderStatusPending})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching dashboard data")
			return
		}
		thisMonth, err := orders.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": monthStart, "$lt": monthEnd}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching dashboard data")
			return
		}
		thisYear, err := orders.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": yearStart, "$lt": yearEnd}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching dashboard data")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalEarnings":        totalEarnings,
			"totalCompletedOrders": completed,
			"totalPendingOrders":   pending,
			"totalOrdersThisMonth": thisMonth,
			"totalOrdersThisYear":  thisYear,
		})
	}
}

// YearlyReport returns per-month order counts and earnings for the current
// year, shaped for the admin chart widget.
func YearlyReport(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/yearly-report"
		defer handlePanic(c, route)

		now := time.Now()
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$match": bson.M{
				"orderStatus": models.OrderStatusCompleted,
				"createdAt":   bson.M{"$gte": yearStart, "$lt": yearStart.AddDate(1, 0, 0)},
			}},
			{"$group": bson.M{
				"_id":           bson.M{"$month": "$createdAt"},
				"totalOrders":   bson.M{"$sum": 1},
				"totalEarnings": bson.M{"$sum": "$totalAmount"},
			}},
		}

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching yearly report")
			return
		}

		type monthRow struct {
			Month         int     `bson:"_id"`
			TotalOrders   int     `bson:"totalOrders"`
			TotalEarnings float64 `bson:"totalEarnings"`
		}
		rows, err := decodeAll[monthRow](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching yearly report")
			return
		}

		ordersPerMonth := make([]int, 12)
		earningsPerMonth := make([]float64, 12)
		for _, row := range rows {
			if row.Month >= 1 && row.Month <= 12 {
				ordersPerMonth[row.Month-1] = row.TotalOrders
				earningsPerMonth[row.Month-1] = row.TotalEarnings
			}
		}

		c.JSON(http.StatusOK, []gin.H{
			{"name": "Order", "data": ordersPerMonth},
			{"name": "Earning", "data": earningsPerMonth},
		})
	}
}

// DailyReport returns today's latest four orders, today's revenue total and
// placeholder series data for the sparkline widget.
func DailyReport(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/daily-report"
		defer handlePanic(c, route)

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		tomorrow := today.AddDate(0, 0, 1)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{{"$match": bson.M{"createdAt": bson.M{"$gte": today, "$lt": tomorrow}}}}
		pipeline = append(pipeline, orderLookupStages()...)
		pipeline = append(pipeline,
			bson.M{"$sort": bson.M{"createdAt": -1}},
			bson.M{"$limit": 4},
		)

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching daily report")
			return
		}
		latest, err := decodeAll[orderView](ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching daily report")
			return
		}

		total, err := sumTotalAmount(ctx, db, bson.M{"createdAt": bson.M{"$gte": today, "$lt": tomorrow}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Error fetching daily report")
			return
		}

		// The storefront chart expects seven values; real per-hour data is
		// not tracked yet.
		graphData := make([]int, 7)
		for i := range graphData {
			graphData[i] = rand.Intn(100) + 1
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"latestOrders": latest,
			"totalAmount":  total,
			"series":       []gin.H{{"data": graphData}},
		})
	}
}
