package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	red "github.com/redis/go-redis/v9"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/core/port"
	"github.com/arklim/contacts-service/internal/repository"
)

const defaultKeyPrefix = "contacts"

// contactDocument is the stored JSON shape. DOB is kept in the wire format so
// documents stay readable with redis tooling.
type contactDocument struct {
	ID           string    `json:"id"`
	UserName     string    `json:"user_name"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Type         string    `json:"type"`
	DOB          string    `json:"dob"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContactRepository implements port.ContactRepository on top of a redis
// document store. Each contact is one JSON document; userName and email
// uniqueness is enforced with SETNX index keys and Find ordering with an id
// list. Index writes and the document write are separate commands, so a crash
// between them can leave a dangling index entry; this backend is documented as
// non-atomic across those keys.
type ContactRepository struct {
	client *red.Client
	prefix string
}

// NewContactRepository constructs a redis-backed contact repository.
func NewContactRepository(client *red.Client, keyPrefix string) *ContactRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &ContactRepository{client: client, prefix: prefix}
}

func (r *ContactRepository) docKey(id string) string {
	return fmt.Sprintf("%s:id:%s", r.prefix, id)
}

func (r *ContactRepository) userNameKey(userName string) string {
	return fmt.Sprintf("%s:username:%s", r.prefix, userName)
}

func (r *ContactRepository) emailKey(email string) string {
	return fmt.Sprintf("%s:email:%s", r.prefix, strings.ToLower(email))
}

func (r *ContactRepository) idsKey() string {
	return fmt.Sprintf("%s:ids", r.prefix)
}

func toDocument(contact domain.Contact) contactDocument {
	return contactDocument{
		ID:           contact.ID,
		UserName:     contact.UserName,
		Name:         contact.Name,
		Email:        contact.Email,
		Type:         string(contact.Type),
		DOB:          contact.DOB.Format(domain.DOBFormat),
		Phone:        contact.Phone,
		PasswordHash: contact.PasswordHash,
		CreatedAt:    contact.CreatedAt,
	}
}

func (d contactDocument) toContact() (domain.Contact, error) {
	dob, err := time.Parse(domain.DOBFormat, d.DOB)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("parse stored dob: %w", err)
	}
	return domain.Contact{
		ID:           d.ID,
		UserName:     d.UserName,
		Name:         d.Name,
		Email:        d.Email,
		Type:         domain.ContactType(d.Type),
		DOB:          dob,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// Persist claims the unique index keys, then writes the document and appends
// the id to the ordering list.
func (r *ContactRepository) Persist(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if contact.ID != "" {
		return nil, fmt.Errorf("persist contact: id must not be set")
	}

	contact.ID = uuid.NewString()

	claimed, err := r.client.SetNX(ctx, r.userNameKey(contact.UserName), contact.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("claim username index: %w", err)
	}
	if !claimed {
		return nil, repository.ErrConflict
	}

	claimed, err = r.client.SetNX(ctx, r.emailKey(contact.Email), contact.ID, 0).Result()
	if err != nil {
		r.client.Del(context.WithoutCancel(ctx), r.userNameKey(contact.UserName))
		return nil, fmt.Errorf("claim email index: %w", err)
	}
	if !claimed {
		r.client.Del(context.WithoutCancel(ctx), r.userNameKey(contact.UserName))
		return nil, repository.ErrConflict
	}

	payload, err := json.Marshal(toDocument(contact))
	if err != nil {
		return nil, fmt.Errorf("marshal contact document: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.docKey(contact.ID), payload, 0)
	pipe.RPush(ctx, r.idsKey(), contact.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.client.Del(context.WithoutCancel(ctx), r.userNameKey(contact.UserName), r.emailKey(contact.Email))
		return nil, fmt.Errorf("store contact document: %w", err)
	}

	stored := contact
	return &stored, nil
}

// Get fetches the document for the given id.
func (r *ContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	payload, err := r.client.Get(ctx, r.docKey(id)).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis get contact: %w", err)
	}

	return decodeDocument([]byte(payload))
}

// Find returns all contacts in id-list order.
func (r *ContactRepository) Find(ctx context.Context) ([]domain.Contact, error) {
	ids, err := r.client.LRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list contact ids: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(ids))
	for _, id := range ids {
		contact, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, nil
}

// GetByUserName resolves the userName index and fetches the document.
func (r *ContactRepository) GetByUserName(ctx context.Context, userName string) (*domain.Contact, error) {
	return r.getByIndex(ctx, r.userNameKey(userName))
}

// GetByEmail resolves the email index and fetches the document. The index key
// folds the email to lowercase, matching the normalization at validation time.
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	return r.getByIndex(ctx, r.emailKey(email))
}

func (r *ContactRepository) getByIndex(ctx context.Context, indexKey string) (*domain.Contact, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis resolve contact index: %w", err)
	}
	return r.Get(ctx, id)
}

// Merge overwrites the stored document and moves index keys when the
// userName or email changed.
func (r *ContactRepository) Merge(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if contact.ID == "" {
		return nil, fmt.Errorf("merge contact: id is required")
	}

	existing, err := r.Get(ctx, contact.ID)
	if err != nil {
		return nil, err
	}

	renamedUser := contact.UserName != existing.UserName
	renamedEmail := !strings.EqualFold(contact.Email, existing.Email)

	// Claim both new index keys before touching anything else; the old keys
	// are dropped only after the document write, so a rejected merge leaves
	// the stored state resolvable.
	if renamedUser {
		claimed, err := r.client.SetNX(ctx, r.userNameKey(contact.UserName), contact.ID, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("claim username index: %w", err)
		}
		if !claimed {
			return nil, repository.ErrConflict
		}
	}
	if renamedEmail {
		claimed, err := r.client.SetNX(ctx, r.emailKey(contact.Email), contact.ID, 0).Result()
		if err != nil {
			r.releaseMergeClaims(ctx, contact, renamedUser, false)
			return nil, fmt.Errorf("claim email index: %w", err)
		}
		if !claimed {
			r.releaseMergeClaims(ctx, contact, renamedUser, false)
			return nil, repository.ErrConflict
		}
	}

	contact.CreatedAt = existing.CreatedAt

	payload, err := json.Marshal(toDocument(contact))
	if err != nil {
		r.releaseMergeClaims(ctx, contact, renamedUser, renamedEmail)
		return nil, fmt.Errorf("marshal contact document: %w", err)
	}
	if err := r.client.Set(ctx, r.docKey(contact.ID), payload, 0).Err(); err != nil {
		r.releaseMergeClaims(ctx, contact, renamedUser, renamedEmail)
		return nil, fmt.Errorf("store contact document: %w", err)
	}

	if renamedUser {
		r.client.Del(ctx, r.userNameKey(existing.UserName))
	}
	if renamedEmail {
		r.client.Del(ctx, r.emailKey(existing.Email))
	}

	stored := contact
	return &stored, nil
}

// releaseMergeClaims drops index keys freshly claimed by Merge after a
// failure, mirroring the rollback in Persist.
func (r *ContactRepository) releaseMergeClaims(ctx context.Context, contact domain.Contact, user, email bool) {
	keys := make([]string, 0, 2)
	if user {
		keys = append(keys, r.userNameKey(contact.UserName))
	}
	if email {
		keys = append(keys, r.emailKey(contact.Email))
	}
	if len(keys) > 0 {
		r.client.Del(context.WithoutCancel(ctx), keys...)
	}
}

// Remove deletes the document, its index keys, and the ordering entry.
// Removing a nonexistent id is a no-op.
func (r *ContactRepository) Remove(ctx context.Context, id string) error {
	contact, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.docKey(id), r.userNameKey(contact.UserName), r.emailKey(contact.Email))
	pipe.LRem(ctx, r.idsKey(), 1, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete contact document: %w", err)
	}
	return nil
}

func decodeDocument(payload []byte) (*domain.Contact, error) {
	var doc contactDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal contact document: %w", err)
	}
	contact, err := doc.toContact()
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

var _ port.ContactRepository = (*ContactRepository)(nil)
