package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type AddressInput struct {
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

type AddressOutput struct {
	ID         int64  `json:"id"`
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
	CreatedAt  string `json:"created_at"`
}

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (in *AddressInput) validate() error {
	if strings.TrimSpace(in.PostalCode) == "" ||
		strings.TrimSpace(in.Prefecture) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.Line1) == "" ||
		strings.TrimSpace(in.Name) == "" {
		return newValidationError("postal_code, prefecture, city, line1 and name are required")
	}
	return nil
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressOutput, error) {
	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]AddressOutput, 0, len(list))
	for i := range list {
		out = append(out, toAddressOutput(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in AddressInput) (AddressOutput, error) {
	if err := in.validate(); err != nil {
		return AddressOutput{}, err
	}

	created, err := u.addresses.Create(ctx, model.Address{
		UserID:     userID,
		PostalCode: in.PostalCode,
		Prefecture: in.Prefecture,
		City:       in.City,
		Line1:      in.Line1,
		Line2:      in.Line2,
		Name:       in.Name,
		Phone:      in.Phone,
	})
	if err != nil {
		return AddressOutput{}, err
	}
	return toAddressOutput(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID, addressID int64, in AddressInput) error {
	if addressID <= 0 {
		return newValidationError("invalid address id")
	}
	if err := in.validate(); err != nil {
		return err
	}
	if err := u.mustOwn(ctx, userID, addressID); err != nil {
		return err
	}

	err := u.addresses.Update(ctx, model.Address{
		ID:         addressID,
		PostalCode: in.PostalCode,
		Prefecture: in.Prefecture,
		City:       in.City,
		Line1:      in.Line1,
		Line2:      in.Line2,
		Name:       in.Name,
		Phone:      in.Phone,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFoundError("address not found")
	}
	return err
}

func (u *AddressUsecase) Delete(ctx context.Context, userID, addressID int64) error {
	if addressID <= 0 {
		return newValidationError("invalid address id")
	}
	if err := u.mustOwn(ctx, userID, addressID); err != nil {
		return err
	}

	err := u.addresses.Delete(ctx, addressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFoundError("address not found")
	}
	if err != nil {
		//注文が参照している住所は消せない
		return newConflictError("address is in use")
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID, addressID int64) error {
	if addressID <= 0 {
		return newValidationError("invalid address id")
	}
	if err := u.mustOwn(ctx, userID, addressID); err != nil {
		return err
	}

	err := u.addresses.SetDefault(ctx, userID, addressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFoundError("address not found")
	}
	return err
}

// 他人の住所は存在ごと隠す（注文と同じく404）
func (u *AddressUsecase) mustOwn(ctx context.Context, userID, addressID int64) error {
	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return newNotFoundError("address not found")
	}
	return nil
}

func toAddressOutput(a *model.Address) AddressOutput {
	return AddressOutput{
		ID:         a.ID,
		PostalCode: a.PostalCode,
		Prefecture: a.Prefecture,
		City:       a.City,
		Line1:      a.Line1,
		Line2:      a.Line2,
		Name:       a.Name,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
