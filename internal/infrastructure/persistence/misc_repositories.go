package persistence

import (
	"context"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	domcart "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/cart"
	domfeedback "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/feedback"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

var (
	errProductConflict  = apperr.New(apperr.ErrConflict, "product was modified concurrently")
	errDocumentConflict = apperr.New(apperr.ErrConflict, "document already exists")
	errFeedbackNotFound = apperr.New(apperr.ErrNotFound, "feedback not found")
)

type CartRepository struct {
	col docstore.Collection
}

func NewCartRepository(s docstore.Store) *CartRepository {
	return &CartRepository{col: s.Collection(CollectionCarts)}
}

func (r *CartRepository) Add(ctx context.Context, e *domcart.Entry) error {
	return mapErr(r.col.Insert(ctx, e.ID, cartToDocument(e)), domcart.ErrEntryNotFound, errDocumentConflict)
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*domcart.Entry, error) {
	var docs []cartDocument
	if err := r.col.FindMany(ctx, docstore.Filter{fieldUserID: userID}, &docs); err != nil {
		return nil, mapErr(err, domcart.ErrEntryNotFound, errDocumentConflict)
	}
	out := make([]*domcart.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CartRepository) Remove(ctx context.Context, entryID string) error {
	return mapErr(r.col.DeleteByID(ctx, entryID), domcart.ErrEntryNotFound, errDocumentConflict)
}

func (r *CartRepository) RemoveByProduct(ctx context.Context, userID, productID string) error {
	filter := docstore.Filter{fieldUserID: userID, fieldProductID: productID}
	return mapErr(r.col.DeleteOne(ctx, filter), domcart.ErrEntryNotFound, errDocumentConflict)
}

type FeedbackRepository struct {
	col docstore.Collection
}

func NewFeedbackRepository(s docstore.Store) *FeedbackRepository {
	return &FeedbackRepository{col: s.Collection(CollectionFeedback)}
}

func (r *FeedbackRepository) Insert(ctx context.Context, f *domfeedback.Feedback) error {
	return mapErr(r.col.Insert(ctx, f.ID, feedbackToDocument(f)), errFeedbackNotFound, errDocumentConflict)
}

func (r *FeedbackRepository) List(ctx context.Context) ([]*domfeedback.Feedback, error) {
	var docs []feedbackDocument
	if err := r.col.FindMany(ctx, nil, &docs); err != nil {
		return nil, mapErr(err, errFeedbackNotFound, errDocumentConflict)
	}
	out := make([]*domfeedback.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

type UserRepository struct {
	col docstore.Collection
}

func NewUserRepository(s docstore.Store) *UserRepository {
	return &UserRepository{col: s.Collection(CollectionUsers)}
}

func (r *UserRepository) Insert(ctx context.Context, u *domuser.User) error {
	return mapErr(r.col.Insert(ctx, u.ID, userToDocument(u)), domuser.ErrNotFound, domuser.ErrExists)
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domuser.User, error) {
	var doc userDocument
	if err := r.col.FindByID(ctx, id, &doc); err != nil {
		return nil, mapErr(err, domuser.ErrNotFound, domuser.ErrExists)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, docstore.Filter{fieldEmail: domuser.NormalizeEmail(email)}, &doc); err != nil {
		return nil, mapErr(err, domuser.ErrNotFound, domuser.ErrExists)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domuser.User, error) {
	var docs []userDocument
	if err := r.col.FindMany(ctx, nil, &docs); err != nil {
		return nil, mapErr(err, domuser.ErrNotFound, domuser.ErrExists)
	}
	out := make([]*domuser.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Compile-time checks against the domain ports.
var (
	_ domcart.Repository     = (*CartRepository)(nil)
	_ domfeedback.Repository = (*FeedbackRepository)(nil)
	_ domuser.Repository     = (*UserRepository)(nil)
)
