package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// ClinicRepository is the MongoDB implementation of ports.ClinicRepository.
// Name and email uniqueness rest on the unique indexes from EnsureIndexes.
type ClinicRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewClinicRepository(db *mongo.Database) *ClinicRepository {
	return &ClinicRepository{
		col:   db.Collection(collectionClinics),
		users: db.Collection(collectionUsers),
	}
}

func clinicWriteError(err error) error {
	switch duplicateIndex(err, indexClinicName, indexClinicEmail) {
	case indexClinicName:
		return domain.ErrClinicNameTaken
	case indexClinicEmail:
		return domain.ErrClinicEmailTaken
	}
	return nil
}

func (r *ClinicRepository) Create(ctx context.Context, clinic *domain.Clinic) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newClinicDocument(clinic)); err != nil {
		if mapped := clinicWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

func (r *ClinicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clinicDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClinicNotFound
		}
		return nil, fmt.Errorf("find clinic: %w", err)
	}
	return doc.toDomain()
}

func (r *ClinicRepository) List(ctx context.Context) ([]*domain.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find clinics: %w", err)
	}
	var docs []clinicDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clinics: %w", err)
	}

	clinics := make([]*domain.Clinic, 0, len(docs))
	for _, d := range docs {
		c, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		clinics = append(clinics, c)
	}
	return clinics, nil
}

func (r *ClinicRepository) Update(ctx context.Context, clinic *domain.Clinic) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newClinicDocument(clinic)
	update := bson.M{"$set": bson.M{
		"name":           doc.Name,
		"email":          doc.Email,
		"description":    doc.Description,
		"address":        doc.Address,
		"phone":          doc.Phone,
		"is_independent": doc.IsIndependent,
	}}
	res, err := r.col.UpdateByID(ctx, doc.ID, update)
	if err != nil {
		if mapped := clinicWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update clinic: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClinicNotFound
	}
	return nil
}

// Delete removes the clinic and unsets clinic_id on its members.
func (r *ClinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete clinic: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClinicNotFound
	}
	if _, err := r.users.UpdateMany(ctx,
		bson.M{"clinic_id": id.String()},
		bson.M{"$unset": bson.M{"clinic_id": ""}},
	); err != nil {
		return fmt.Errorf("detach clinic members: %w", err)
	}
	return nil
}
