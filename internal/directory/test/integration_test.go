package test

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/partners/internal/directory/auth"
	"github.com/gartstein/partners/internal/directory/controller"
	"github.com/gartstein/partners/internal/directory/db"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/events"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/gartstein/partners/internal/pkg/clock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testTopic    = "directory.events.test"
	masterSecret = "integration-master"
)

var kafkaBrokers = []string{"localhost:9092"}

type IntegrationTestSuite struct {
	suite.Suite
	dbRepo      *db.Repository
	kafkaReader *kafka.Reader
	producer    *events.Producer
	verifier    *auth.Verifier
	logger      *zap.Logger
	testTimeout time.Duration
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second

	var err error
	s.dbRepo, err = initializeDBWithRetry()
	s.Require().NoError(err, "database initialization failed")

	s.producer, s.kafkaReader, err = initializeKafkaWithRetry(testTopic, s.logger)
	s.Require().NoError(err, "Kafka initialization failed")

	s.verifier, err = auth.NewVerifier(masterSecret, auth.WithCost(bcrypt.MinCost))
	s.Require().NoError(err)
}

func initializeDBWithRetry() (*db.Repository, error) {
	cfg := &db.Config{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "test",
		Password: "test",
		DBName:   "test",
		SSLMode:  "disable",
	}

	var repo *db.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = db.NewRepository(cfg)
		return err
	}, backoff.NewExponentialBackOff())

	return repo, err
}

func initializeKafkaWithRetry(topic string, logger *zap.Logger) (*events.Producer, *kafka.Reader, error) {
	var producer *events.Producer
	err := backoff.Retry(func() error {
		var err error
		producer, err = events.NewProducer(kafkaBrokers, topic, clock.RealClock{}, logger)
		return err
	}, backoff.NewExponentialBackOff())
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer initialization failed: %w", err)
	}

	// The topic must exist before a reader can start at its tail.
	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", kafkaBrokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("kafka topic check failed: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkaBrokers,
		GroupID:     fmt.Sprintf("integration-%d", time.Now().UnixNano()),
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return producer, reader, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.kafkaReader != nil {
		s.kafkaReader.Close()
	}
	if s.producer != nil {
		s.producer.Close()
	}
	if s.dbRepo != nil {
		s.dbRepo.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	err := s.dbRepo.Exec(ctx,
		"TRUNCATE TABLE t_company_labels, t_company_details, t_companies, t_home_banners, t_contents, t_inquiries RESTART IDENTITY CASCADE")
	s.Require().NoError(err, "failed to clean database")
}

func (s *IntegrationTestSuite) companyService() *controller.CompanyService {
	return controller.NewCompanyService(s.dbRepo, s.verifier, s.producer, clock.RealClock{}, s.logger)
}

func newCompany(name string) *models.NewCompany {
	return &models.NewCompany{
		Name:                name,
		Password:            "owner-secret",
		IntroText:           "Integration test partner",
		PrimaryCategories:   []string{"manufacturing"},
		SecondaryCategories: []string{"processed"},
		Tags:                []string{"integration"},
		Detail: &models.CompanyDetail{
			Phone: "010-1234-5678",
			Email: "partner@example.com",
		},
	}
}

func (s *IntegrationTestSuite) TestCompanyApprovalFlow() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()
	svc := s.companyService()

	created, err := svc.CreateCompany(ctx, newCompany("Integration Foods"))
	s.Require().NoError(err)
	s.Equal(models.StatusPending, created.ApprovalStatus)
	s.verifyKafkaEvent(ctx, events.CompanyCreated, created.ID)

	_, err = svc.GetCompany(ctx, created.ID)
	s.ErrorIs(err, e.ErrNotFound)

	approved, err := svc.UpdateApprovalStatus(ctx, created.ID, models.StatusApproved, masterSecret)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.ApprovalStatus)
	s.verifyKafkaEvent(ctx, events.CompanyStatusChanged, created.ID)

	page, err := svc.ListCompanies(ctx, models.CompanyFilter{Search: "integration"})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("Integration Foods", page.Items[0].Name)
	s.Require().NotNil(page.Items[0].Email)
	s.Equal("partner@example.com", *page.Items[0].Email)
}

func (s *IntegrationTestSuite) TestCompanyUpdateAndDelete() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()
	svc := s.companyService()

	created, err := svc.CreateCompany(ctx, newCompany("Update Me"))
	s.Require().NoError(err)

	newName := "Updated Company"
	newTags := []string{"updated", "integration"}
	updated, err := svc.UpdateCompany(ctx, created.ID, &models.CompanyUpdate{Name: &newName, Tags: &newTags}, "owner-secret")
	s.Require().NoError(err)
	s.Equal(newName, updated.Name)
	s.ElementsMatch(newTags, updated.Tags)
	s.verifyKafkaEvent(ctx, events.CompanyUpdated, created.ID)

	_, err = svc.UpdateCompany(ctx, created.ID, &models.CompanyUpdate{Name: &newName}, "wrong-secret")
	s.ErrorIs(err, e.ErrInvalidSecret)

	s.Require().NoError(svc.DeleteCompany(ctx, created.ID, masterSecret))
	_, err = s.dbRepo.GetCompany(ctx, created.ID)
	s.ErrorIs(err, e.ErrNotFound)
	s.verifyKafkaEvent(ctx, events.CompanyDeleted, created.ID)
}

func (s *IntegrationTestSuite) TestInquiryNotification() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	svc := controller.NewInquiryService(s.dbRepo, s.verifier, events.NewInquiryNotifier(s.producer),
		s.producer, clock.RealClock{}, s.logger)
	created, err := svc.CreateInquiry(ctx, &models.NewInquiry{
		Category: models.InquiryPurchase,
		Content:  "We would like a quote for 500 units.",
		Name:     "Integration Buyer",
		Phone:    "010-9876-5432",
		Password: "1234",
	}, models.ClientInfo{IPAddress: "127.0.0.1", UserAgent: "integration"})
	s.Require().NoError(err)

	msg := s.consumeKafkaEvent(ctx, events.InquiryCreated, created.ID)
	var n models.InquiryNotification
	s.Require().NoError(json.Unmarshal(msg.Data, &n))
	s.Equal("Integration Buyer", n.Name)
	s.NotContains(string(msg.Data), "1234")

	count, err := svc.CountUnanswered(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *IntegrationTestSuite) verifyKafkaEvent(ctx context.Context, eventType events.EventType, id int64) {
	msg := s.consumeKafkaEvent(ctx, eventType, id)

	var ref events.EntityRef
	s.Require().NoError(json.Unmarshal(msg.Data, &ref))
	s.Equal(id, ref.ID, "Kafka message entity ID mismatch")
}

// consumeKafkaEvent skips unrelated messages until one with eventType and id arrives.
func (s *IntegrationTestSuite) consumeKafkaEvent(ctx context.Context, eventType events.EventType, id int64) events.Message {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	key := strconv.FormatInt(id, 10)
	for {
		msg, err := s.kafkaReader.ReadMessage(ctx)
		if err != nil {
			s.T().Fatalf("No %s event received for %s: %v", eventType, key, err)
			return events.Message{}
		}
		if string(msg.Key) != key {
			continue
		}
		var event events.Message
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.T().Fatalf("Failed to unmarshal Kafka message: %v", err)
		}
		if event.Type != eventType {
			s.T().Logf("Skipping %s event for %s", event.Type, key)
			continue
		}
		return event
	}
}
