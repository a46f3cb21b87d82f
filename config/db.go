package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"rental-backend/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "rental_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.RolePermission{},
		&models.RoleMember{},
		&models.CompanySetting{},
		&models.VehicleStatus{},
		&models.VehicleMake{},
		&models.VehicleClass{},
		&models.Vehicle{},
		&models.ContactType{},
		&models.Customer{},
		&models.Contact{},
		&models.DepositType{},
		&models.Rental{},
		&models.Deposit{},
		&models.Account{},
		&models.Sale{},
		&models.Expense{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

var defaultPermissions = []string{
	"rentalManagement.view",
	"rentalManagement.create",
	"rentalManagement.edit",
	"rentalManagement.return",
	"rentalManagement.export",
	"vehicleManagement.view",
	"vehicleManagement.create",
	"vehicleManagement.edit",
	"vehicleManagement.delete",
	"vehicleManagement.editStatus",
	"customerList.view",
	"customerList.create",
	"customerList.edit",
	"customerList.delete",
	"customerList.export",
	"accounting.view",
	"accounting.create",
	"accounting.delete",
	"accounting.reports",
	"userManagement.view",
	"userManagement.create",
	"userManagement.delete",
	"rolesAndPermissions.view",
	"rolesAndPermissions.create",
	"rolesAndPermissions.edit",
	"rolesAndPermissions.delete",
}

// SeedDatabase fills in lookup tables and the owner account on first run.
// Every block is idempotent, existing rows are left alone.
func SeedDatabase() {
	seedLog := logrus.WithField("component", "seed")

	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			seedLog.WithError(err).Warn("failed to hash default admin password")
		} else {
			admin := models.User{
				FullName: "Admin User",
				Username: envOrDefault("ADMIN_USERNAME", "admin"),
				Password: string(hash),
				IsActive: true,
			}
			if err := DB.Create(&admin).Error; err != nil {
				seedLog.WithError(err).Warn("failed to create default admin")
			} else {
				seedLog.Info("default admin seeded")
			}
		}
	}

	var statusCount int64
	DB.Model(&models.VehicleStatus{}).Count(&statusCount)
	if statusCount == 0 {
		statuses := []models.VehicleStatus{
			{Name: "Available", Description: "Ready to rent"},
			{Name: "Rented", Description: "Out with a customer"},
			{Name: "Reserved", Description: "Held for an upcoming rental"},
			{Name: "Maintenance", Description: "In the workshop"},
			{Name: "Retired", Description: "No longer in the fleet"},
		}
		DB.Create(&statuses)
		seedLog.Info("vehicle statuses seeded")
	}

	var makeCount int64
	DB.Model(&models.VehicleMake{}).Count(&makeCount)
	if makeCount == 0 {
		makes := []models.VehicleMake{
			{Name: "Honda"},
			{Name: "Yamaha"},
			{Name: "Toyota"},
			{Name: "Suzuki"},
		}
		DB.Create(&makes)
		seedLog.Info("vehicle makes seeded")
	}

	var classCount int64
	DB.Model(&models.VehicleClass{}).Count(&classCount)
	if classCount == 0 {
		classes := []models.VehicleClass{
			{Name: "Scooter", Description: "Automatic scooters up to 125cc"},
			{Name: "Motorbike", Description: "Manual bikes above 125cc"},
			{Name: "Compact Car", Description: "Small city cars"},
			{Name: "SUV", Description: "Sport utility vehicles"},
		}
		DB.Create(&classes)
		seedLog.Info("vehicle classes seeded")
	}

	var depositTypeCount int64
	DB.Model(&models.DepositType{}).Count(&depositTypeCount)
	if depositTypeCount == 0 {
		depositTypes := []models.DepositType{
			{Name: "Cash", IsCash: true},
			{Name: "Passport"},
			{Name: "ID Card"},
			{Name: "Driving Licence"},
		}
		DB.Create(&depositTypes)
		seedLog.Info("deposit types seeded")
	}

	var contactTypeCount int64
	DB.Model(&models.ContactType{}).Count(&contactTypeCount)
	if contactTypeCount == 0 {
		contactTypes := []models.ContactType{
			{Name: "Phone"},
			{Name: "Email"},
			{Name: "Line"},
			{Name: "WhatsApp"},
			{Name: "Facebook"},
			{Name: "Hotel / Address"},
		}
		DB.Create(&contactTypes)
		seedLog.Info("contact types seeded")
	}

	var accountCount int64
	DB.Model(&models.Account{}).Count(&accountCount)
	if accountCount == 0 {
		accounts := []models.Account{
			{Code: "1000", Name: "Cash", Type: models.AccountTypeAsset},
			{Code: "1100", Name: "Bank", Type: models.AccountTypeAsset},
			{Code: "1500", Name: "Fleet Vehicles", Type: models.AccountTypeAsset},
			{Code: "2000", Name: "Customer Deposits Held", Type: models.AccountTypeLiability},
			{Code: "3000", Name: "Owner Capital", Type: models.AccountTypeEquity},
			{Code: "4000", Name: "Rental Income", Type: models.AccountTypeIncome},
			{Code: "4100", Name: "Late Fees", Type: models.AccountTypeIncome},
			{Code: "4200", Name: "Damage Charges", Type: models.AccountTypeIncome},
			{Code: "5000", Name: "Vehicle Maintenance", Type: models.AccountTypeExpense},
			{Code: "5100", Name: "Fuel", Type: models.AccountTypeExpense},
			{Code: "5200", Name: "Insurance", Type: models.AccountTypeExpense},
			{Code: "5300", Name: "Rent & Utilities", Type: models.AccountTypeExpense},
			{Code: "5400", Name: "Salaries", Type: models.AccountTypeExpense},
		}
		DB.Create(&accounts)
		seedLog.Info("chart of accounts seeded")
	}

	desiredRoles := []models.Role{
		{Name: "owner", Description: "System owner with full access"},
		{Name: "Manager", Description: "Manager with elevated access"},
		{Name: "Staff", Description: "Front desk operations"},
	}

	rolesByKey := map[string]models.Role{}
	for i := range desiredRoles {
		role := desiredRoles[i]
		key := strings.ToLower(role.Name)

		var existing models.Role
		err := DB.Where("LOWER(name) = ?", key).First(&existing).Error
		if err == nil && existing.ID != 0 {
			rolesByKey[key] = existing
			continue
		}

		if err := DB.Create(&role).Error; err != nil {
			seedLog.WithError(err).Warnf("failed to create role %s", role.Name)
			continue
		}
		rolesByKey[key] = role
	}

	ownerRole, ok := rolesByKey["owner"]
	if ok && ownerRole.ID != 0 {
		var permCount int64
		DB.Model(&models.RolePermission{}).Where("role_id = ?", ownerRole.ID).Count(&permCount)
		if permCount == 0 {
			perms := make([]models.RolePermission, 0, len(defaultPermissions))
			for _, p := range defaultPermissions {
				perms = append(perms, models.RolePermission{RoleID: ownerRole.ID, Permission: p})
			}
			if err := DB.Create(&perms).Error; err != nil {
				seedLog.WithError(err).Warn("failed to create owner permissions")
			}
		}

		var memberCount int64
		DB.Model(&models.RoleMember{}).Where("role_id = ?", ownerRole.ID).Count(&memberCount)
		if memberCount == 0 {
			var admins []models.User
			DB.Find(&admins)
			if len(admins) > 0 {
				members := make([]models.RoleMember, 0, len(admins))
				for _, admin := range admins {
					members = append(members, models.RoleMember{RoleID: ownerRole.ID, UserID: admin.ID})
				}
				if err := DB.Create(&members).Error; err != nil {
					seedLog.WithError(err).Warn("failed to assign admins to owner role")
				}
			}
		}
	}

	seedLog.Info("roles ensured")
}
