package handlers

import "go.mongodb.org/mongo-driver/mongo/options"

func mongoFindOneAndUpdateAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func mongoFindSkipLimit(skip, limit int64) *options.FindOptions {
	return options.Find().SetSkip(skip).SetLimit(limit)
}
