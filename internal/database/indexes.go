package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureAdminIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureAdminIndexes: creating email_unique index")
	if _, err := db.Collection("admins").Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Println("EnsureAdminIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureDiscountCodeIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	codeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
		Options: options.Index().
			SetName("code_unique").
			SetUnique(true),
	}

	log.Println("EnsureDiscountCodeIndexes: creating code_unique index")
	if _, err := db.Collection("discountcodes").Indexes().CreateOne(ctx, codeIndex); err != nil {
		log.Println("EnsureDiscountCodeIndexes: code index error:", err)
		return err
	}
	return nil
}

func EnsureReviewIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// One review per (user, product) pair, backed by the store.
	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "product", Value: 1},
		},
		Options: options.Index().
			SetName("user_product_unique").
			SetUnique(true),
	}

	log.Println("EnsureReviewIndexes: creating user_product_unique index")
	if _, err := db.Collection("reviews").Indexes().CreateOne(ctx, pairIndex); err != nil {
		log.Println("EnsureReviewIndexes: pair index error:", err)
		return err
	}
	return nil
}

func EnsureEmployeeIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("employees").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}
	cnicIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "cnic", Value: 1}},
		Options: options.Index().
			SetName("cnic_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"cnic": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureEmployeeIndexes: creating email_unique and cnic_unique indexes")
	if _, err := indexes.CreateMany(ctx, []mongo.IndexModel{emailIndex, cnicIndex}); err != nil {
		log.Println("EnsureEmployeeIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureSupplyChainIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := func(name string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName(name).
				SetUnique(true),
		}
	}

	log.Println("EnsureSupplyChainIndexes: creating supplier/distributor email indexes")
	if _, err := db.Collection("suppliers").Indexes().CreateOne(ctx, emailIndex("email_unique")); err != nil {
		log.Println("EnsureSupplyChainIndexes: supplier index error:", err)
		return err
	}
	if _, err := db.Collection("distributors").Indexes().CreateOne(ctx, emailIndex("email_unique")); err != nil {
		log.Println("EnsureSupplyChainIndexes: distributor index error:", err)
		return err
	}
	return nil
}

func EnsureUserInterestIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetName("userId_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserInterestIndexes: creating userId_unique index")
	if _, err := db.Collection("userinterests").Indexes().CreateOne(ctx, userIndex); err != nil {
		log.Println("EnsureUserInterestIndexes: userId index error:", err)
		return err
	}
	return nil
}
