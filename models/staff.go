package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Staff is a back-office user (admin, manager, cashier).
type Staff struct {
	Id          string    `json:"id" gorm:"primaryKey"`
	FirstName   string    `json:"first_name" gorm:"not null"`
	LastName    string    `json:"last_name" gorm:"not null"`
	Username    string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Password    []byte    `json:"-" gorm:"not null"`
	Email       string    `json:"email" gorm:"unique"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role" gorm:"size:16;default:cashier"` // admin, manager, cashier
	Status      string    `json:"status" gorm:"size:16;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if s.Id == "" {
		s.Id = uuid.NewString()
	}
	return
}

func (s *Staff) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	s.Password = hashedPassword
}

func (s *Staff) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(s.Password, []byte(password))
}
