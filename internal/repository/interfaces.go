package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pitstop/pitstop-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	}

	TokenRepository interface {
		StoreVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateVerificationToken(ctx context.Context, token string) (uuid.UUID, error)
		StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
		InvalidateToken(ctx context.Context, token string) error
	}

	CatalogRepository interface {
		CreateService(ctx context.Context, svc *model.Service) error
		GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
		GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error)
		UpdateService(ctx context.Context, svc *model.Service) error
		DeleteService(ctx context.Context, id uuid.UUID) error
		ListServices(ctx context.Context, filters *model.ServiceFilters) ([]*model.Service, error)

		CreateCategory(ctx context.Context, cat *model.Category) error
		GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
		UpdateCategory(ctx context.Context, cat *model.Category) error
		DeleteCategory(ctx context.Context, id uuid.UUID) error
		ListCategories(ctx context.Context) ([]*model.Category, error)
		CountServicesInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

		CreateTag(ctx context.Context, tag *model.Tag) error
		DeleteTag(ctx context.Context, id uuid.UUID) error
		ListTags(ctx context.Context) ([]*model.Tag, error)
		TagService(ctx context.Context, serviceID, tagID uuid.UUID) error
		UntagService(ctx context.Context, serviceID, tagID uuid.UUID) error
		ListServiceTags(ctx context.Context, serviceID uuid.UUID) ([]*model.Tag, error)
	}

	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		Update(ctx context.Context, booking *model.Booking) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
		// ListOccupied returns PENDING/CONFIRMED bookings for a service on a date.
		ListOccupied(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*model.Booking, error)
	}

	AvailabilityRepository interface {
		GetBusinessHour(ctx context.Context, weekday int) (*model.BusinessHour, error)
		UpsertBusinessHour(ctx context.Context, hour *model.BusinessHour) error
		ListBusinessHours(ctx context.Context) ([]*model.BusinessHour, error)
		GetHolidayByDate(ctx context.Context, date time.Time) (*model.Holiday, error)
		CreateHoliday(ctx context.Context, holiday *model.Holiday) error
		DeleteHoliday(ctx context.Context, id uuid.UUID) error
		ListHolidays(ctx context.Context) ([]*model.Holiday, error)
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
		GetByGatewayRef(ctx context.Context, ref string) (*model.Payment, error)
		List(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error)
		// MarkCompleted sets the payment completed and its booking
		// CONFIRMED in a single transaction.
		MarkCompleted(ctx context.Context, paymentID uuid.UUID, gatewayRef string) error
		MarkFailed(ctx context.Context, paymentID uuid.UUID, gatewayRef string) error
		// MarkRefunded sets the payment refunded and credits the
		// customer's wallet in a single transaction.
		MarkRefunded(ctx context.Context, paymentID uuid.UUID, gatewayRef string, amount int64) error
	}

	DiscountRepository interface {
		Create(ctx context.Context, discount *model.Discount) error
		Get(ctx context.Context, id uuid.UUID) (*model.Discount, error)
		GetByCode(ctx context.Context, code string) (*model.Discount, error)
		Update(ctx context.Context, discount *model.Discount) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Discount, error)
		IncrementUse(ctx context.Context, id uuid.UUID) error
	}

	PlanRepository interface {
		Create(ctx context.Context, plan *model.Plan) error
		Get(ctx context.Context, id uuid.UUID) (*model.Plan, error)
		Update(ctx context.Context, plan *model.Plan) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Plan, error)
		CreateSubscription(ctx context.Context, sub *model.Subscription) error
		GetActiveSubscription(ctx context.Context, userID uuid.UUID) (*model.Subscription, error)
		UpdateSubscription(ctx context.Context, sub *model.Subscription) error
	}

	ContentRepository interface {
		Create(ctx context.Context, page *model.ContentPage) error
		Get(ctx context.Context, id uuid.UUID) (*model.ContentPage, error)
		GetBySlug(ctx context.Context, slug string) (*model.ContentPage, error)
		Update(ctx context.Context, page *model.ContentPage) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, publishedOnly bool) ([]*model.ContentPage, error)
	}

	WalletRepository interface {
		GetByUser(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
		CreateForUser(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
		// Adjust applies a credit or debit and records the ledger entry
		// in one transaction. Debits that would go negative fail.
		Adjust(ctx context.Context, walletID uuid.UUID, tx *model.WalletTransaction) error
		ListTransactions(ctx context.Context, walletID uuid.UUID) ([]*model.WalletTransaction, error)
	}

	ChatRepository interface {
		CreateConversation(ctx context.Context, conv *model.Conversation) error
		GetConversation(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
		ListConversations(ctx context.Context, userID uuid.UUID) ([]*model.Conversation, error)
		CreateMessage(ctx context.Context, msg *model.Message) error
		ListMessages(ctx context.Context, conversationID uuid.UUID, p *model.Pagination) ([]*model.Message, error)

		CreateGroup(ctx context.Context, group *model.Group) error
		GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error)
		DeleteGroup(ctx context.Context, id uuid.UUID) error
		AddGroupMember(ctx context.Context, groupID, userID uuid.UUID) error
		RemoveGroupMember(ctx context.Context, groupID, userID uuid.UUID) error
		IsGroupMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
		CreateGroupMessage(ctx context.Context, msg *model.GroupMessage) error
		ListGroupMessages(ctx context.Context, groupID uuid.UUID, p *model.Pagination) ([]*model.GroupMessage, error)
	}

	ReportRepository interface {
		BookingsByStatus(ctx context.Context, filters *model.ReportFilters) ([]*model.BookingStatusCount, error)
		RevenueByPeriod(ctx context.Context, filters *model.ReportFilters) ([]*model.RevenuePoint, error)
		TopServices(ctx context.Context, filters *model.ReportFilters, limit int) ([]*model.ServiceBookingCount, error)
	}

	SettingRepository interface {
		Get(ctx context.Context, key string) (*model.Setting, error)
		Upsert(ctx context.Context, setting *model.Setting) error
		Delete(ctx context.Context, key string) error
		List(ctx context.Context, publicOnly bool) ([]*model.Setting, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// BeginTx opens the transaction a fetch/update cycle runs in so
		// FOR UPDATE locks are held until the batch is written back.
		BeginTx(ctx context.Context) (*sqlx.Tx, error)
		GetPendingEventsWithLock(ctx context.Context, tx *sqlx.Tx, limit int) ([]*model.OutboxEvent, error)
		// UpdateStatus writes through tx when given one, the pool otherwise.
		UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.OutboxStatus, errMsg *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
