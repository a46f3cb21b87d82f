package services

import (
	"errors"
	"fmt"

	"rental-backend/models"

	"gorm.io/gorm"
)

type CustomerService struct {
	DB *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{DB: db}
}

type ContactItem struct {
	ContactTypeID uint   `json:"contact_type_id"`
	ContactValue  string `json:"contact_value"`
	Description   string `json:"description"`
	IsPrimary     bool   `json:"is_primary"`
}

// Create inserts the customer and any submitted contacts together.
func (s *CustomerService) Create(actorID uint, customer *models.Customer, contacts []ContactItem) error {
	if customer.FirstName == "" {
		return invalid("first_name", "first name is required")
	}
	customer.CreatorID = actorID

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		for _, item := range contacts {
			var ct models.ContactType
			if err := tx.First(&ct, item.ContactTypeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("contact type", item.ContactTypeID)
				}
				return err
			}
			contact := models.Contact{
				CustomerID:    customer.ID,
				ContactTypeID: item.ContactTypeID,
				ContactValue:  item.ContactValue,
				Description:   item.Description,
				IsPrimary:     item.IsPrimary,
				IsActive:      true,
			}
			if err := tx.Create(&contact).Error; err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}
		}
		return nil
	})
}

func (s *CustomerService) GetAll() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.DB.
		Preload("Contacts", "is_active = ?", true).
		Preload("Contacts.ContactType").
		Order("created_at DESC").
		Find(&customers).Error
	return customers, err
}

func (s *CustomerService) GetByID(id uint) (models.Customer, error) {
	var customer models.Customer
	err := s.DB.
		Preload("Contacts", "is_active = ?", true).
		Preload("Contacts.ContactType").
		First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return customer, notFound("customer", id)
	}
	return customer, err
}

func (s *CustomerService) Update(customer models.Customer) error {
	return s.DB.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(customer).Error
}

func (s *CustomerService) Delete(id uint) error {
	var count int64
	if err := s.DB.Model(&models.Rental{}).
		Where("customer_id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check live rentals for customer %d: %w", id, err)
	}
	if count > 0 {
		return invalid("customer", "customer has an active rental")
	}
	return s.DB.Delete(&models.Customer{}, id).Error
}

// AddContact attaches one contact. When the new contact is flagged primary,
// any previous primary is demoted to keep the at-most-one convention.
func (s *CustomerService) AddContact(customerID uint, item ContactItem) (*models.Contact, error) {
	if _, err := s.GetByID(customerID); err != nil {
		return nil, err
	}
	var ct models.ContactType
	if err := s.DB.First(&ct, item.ContactTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("contact type", item.ContactTypeID)
		}
		return nil, err
	}

	contact := models.Contact{
		CustomerID:    customerID,
		ContactTypeID: item.ContactTypeID,
		ContactValue:  item.ContactValue,
		Description:   item.Description,
		IsPrimary:     item.IsPrimary,
		IsActive:      true,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if item.IsPrimary {
			if err := tx.Model(&models.Contact{}).
				Where("customer_id = ? AND is_primary = ?", customerID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&contact).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}
	return &contact, nil
}

// DeactivateContact keeps the row for history instead of deleting it.
func (s *CustomerService) DeactivateContact(contactID uint) error {
	res := s.DB.Model(&models.Contact{}).
		Where("id = ? AND is_active = ?", contactID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("contact", contactID)
	}
	return nil
}

func (s *CustomerService) GetContactTypes() ([]models.ContactType, error) {
	var types []models.ContactType
	err := s.DB.Order("id ASC").Find(&types).Error
	return types, err
}

func (s *CustomerService) GetDepositTypes() ([]models.DepositType, error) {
	var types []models.DepositType
	err := s.DB.Order("id ASC").Find(&types).Error
	return types, err
}

// DepositsForCustomer lists a customer's collateral across rentals, newest
// first, for the customer detail screen.
func (s *CustomerService) DepositsForCustomer(customerID uint, activeOnly bool) ([]models.Deposit, error) {
	q := s.DB.Preload("DepositType").Where("customer_id = ?", customerID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var deposits []models.Deposit
	err := q.Order("created_at DESC").Find(&deposits).Error
	return deposits, err
}
