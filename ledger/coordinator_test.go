package ledger_test

import (
	"context"
	"database/sql"
	"io/ioutil"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	yaml "gopkg.in/yaml.v2"

	"github.com/centimehq/centime/events"
	"github.com/centimehq/centime/ledger"
	"github.com/centimehq/centime/models"
	"github.com/centimehq/centime/store/memory"
)

type suiteCoordinatorTester struct {
	suite.Suite

	store       *memory.Store
	coordinator *ledger.Coordinator
	user        models.User
	account     models.Account
	category    models.Category
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(suiteCoordinatorTester))
}

func (s *suiteCoordinatorTester) SetupTest() {
	log := logrus.New()
	log.SetOutput(ioutil.Discard)

	s.store = memory.NewStore()
	s.coordinator = ledger.NewCoordinator(s.store, events.NopPublisher{}, log)

	s.user = models.User{ID: 1, UID: "U001", Email: "user@example.com"}
	s.account = s.store.SeedAccount(models.Account{
		UserID:         s.user.ID,
		Name:           "Compte courant",
		Kind:           models.AccountKindChecking,
		Currency:       "EUR",
		InitialBalance: decimal.Zero,
		Balance:        decimal.Zero,
	})
	s.category = s.store.SeedCategory(models.Category{
		UserID: s.user.ID,
		Name:   "Courses",
		Kind:   models.KindExpense,
	})
}

func (s *suiteCoordinatorTester) seedAccountWithBalance(userID uint64, balance string) models.Account {
	amount, err := decimal.NewFromString(balance)
	s.Require().NoError(err)

	return s.store.SeedAccount(models.Account{
		UserID:         userID,
		Name:           "Compte",
		Kind:           models.AccountKindChecking,
		Currency:       "EUR",
		InitialBalance: amount,
		Balance:        amount,
	})
}

// invariant: balance == initialBalance + sum of signed deltas of current
// entries.
func (s *suiteCoordinatorTester) assertInvariant(accountID uint64) {
	account, ok := s.store.Account(accountID)
	s.Require().True(ok)

	expected := account.InitialBalance
	for _, entry := range s.store.EntriesByAccount(accountID) {
		delta, err := ledger.DeltaOf(entry.Kind, entry.Amount)
		s.Require().NoError(err)
		expected = expected.Add(delta)
	}

	s.True(account.Balance.Equal(expected), "balance %s != expected %s", account.Balance, expected)
}

func (s *suiteCoordinatorTester) createParams(kind models.TransactionKind, amount string) ledger.CreateEntryParams {
	value, err := decimal.NewFromString(amount)
	s.Require().NoError(err)

	return ledger.CreateEntryParams{
		UserID:    s.user.ID,
		AccountID: s.account.ID,
		Kind:      kind,
		Amount:    value,
	}
}

func (s *suiteCoordinatorTester) TestCreateAppliesDelta() {
	entry, err := s.coordinator.CreateEntry(context.Background(), s.createParams(models.KindExpense, "25.50"))
	s.Require().NoError(err)
	s.NotZero(entry.ID)

	account, _ := s.store.Account(s.account.ID)
	s.True(account.Balance.Equal(decimal.RequireFromString("-25.50")))
	s.assertInvariant(s.account.ID)
}

func (s *suiteCoordinatorTester) TestCreateRoundTrip() {
	date := mustDate("2026-03-14")
	description := "courses du samedi"
	categoryID := s.category.ID

	params := s.createParams(models.KindExpense, "12.34")
	params.TxnDate = date
	params.CategoryID = &categoryID
	params.Description = &description

	created, err := s.coordinator.CreateEntry(context.Background(), params)
	s.Require().NoError(err)

	entries := s.store.EntriesByAccount(s.account.ID)
	s.Require().Len(entries, 1)

	stored := entries[0]
	s.Equal(created.ID, stored.ID)
	s.Equal(models.KindExpense, stored.Kind)
	s.True(stored.Amount.Equal(decimal.RequireFromString("12.34")))
	s.True(stored.TxnDate.Equal(date))
	s.Equal(sql.NullInt64{Int64: int64(categoryID), Valid: true}, stored.CategoryID)
	s.Equal(sql.NullString{String: description, Valid: true}, stored.Description)
}

func (s *suiteCoordinatorTester) TestCreateValidationLeavesNoTrace() {
	for _, params := range []ledger.CreateEntryParams{
		s.createParams(models.KindExpense, "0"),
		s.createParams(models.KindExpense, "-5"),
		{UserID: s.user.ID, AccountID: s.account.ID, Kind: "TRANSFER", Amount: decimal.NewFromInt(5)},
	} {
		_, err := s.coordinator.CreateEntry(context.Background(), params)
		s.Error(err)
	}

	s.Empty(s.store.EntriesByAccount(s.account.ID))
	account, _ := s.store.Account(s.account.ID)
	s.True(account.Balance.IsZero())
}

func (s *suiteCoordinatorTester) TestCreateUnknownAccount() {
	params := s.createParams(models.KindIncome, "10")
	params.AccountID = 999

	_, err := s.coordinator.CreateEntry(context.Background(), params)
	s.ErrorIs(err, ledger.ErrNotFound)
}

func (s *suiteCoordinatorTester) TestCreateForeignAccount() {
	other := s.seedAccountWithBalance(2, "0")

	params := s.createParams(models.KindIncome, "10")
	params.AccountID = other.ID

	_, err := s.coordinator.CreateEntry(context.Background(), params)
	s.ErrorIs(err, ledger.ErrNotFound)

	account, _ := s.store.Account(other.ID)
	s.True(account.Balance.IsZero())
}

func (s *suiteCoordinatorTester) TestCreateForeignCategoryRollsBack() {
	foreign := s.store.SeedCategory(models.Category{UserID: 2, Name: "Autre", Kind: models.KindExpense})

	params := s.createParams(models.KindExpense, "10")
	params.CategoryID = &foreign.ID

	_, err := s.coordinator.CreateEntry(context.Background(), params)
	s.ErrorIs(err, ledger.ErrConstraintViolation)

	s.Empty(s.store.EntriesByAccount(s.account.ID))
	account, _ := s.store.Account(s.account.ID)
	s.True(account.Balance.IsZero())
}

// Update net-effect law: reversing EXPENSE 100 and applying INCOME 30 on a
// 500 balance yields 630 in one atomic step.
func (s *suiteCoordinatorTester) TestUpdateNetEffect() {
	account := s.seedAccountWithBalance(s.user.ID, "600")

	params := s.createParams(models.KindExpense, "100")
	params.AccountID = account.ID

	entry, err := s.coordinator.CreateEntry(context.Background(), params)
	s.Require().NoError(err)

	current, _ := s.store.Account(account.ID)
	s.True(current.Balance.Equal(decimal.NewFromInt(500)))

	kind := models.KindIncome
	_, err = s.coordinator.UpdateEntry(context.Background(), ledger.UpdateEntryParams{
		ID:        entry.ID,
		UserID:    s.user.ID,
		AccountID: account.ID,
		Kind:      &kind,
		Amount:    decimal.NewNullDecimal(decimal.NewFromInt(30)),
	})
	s.Require().NoError(err)

	current, _ = s.store.Account(account.ID)
	s.True(current.Balance.Equal(decimal.NewFromInt(630)), "balance %s != 630", current.Balance)
	s.assertInvariant(account.ID)
}

func (s *suiteCoordinatorTester) TestUpdatePatchKeepsUnspecifiedFields() {
	date := mustDate("2026-01-02")
	description := "abonnement"
	categoryID := s.category.ID

	params := s.createParams(models.KindExpense, "9.99")
	params.TxnDate = date
	params.CategoryID = &categoryID
	params.Description = &description

	entry, err := s.coordinator.CreateEntry(context.Background(), params)
	s.Require().NoError(err)

	updated, err := s.coordinator.UpdateEntry(context.Background(), ledger.UpdateEntryParams{
		ID:        entry.ID,
		UserID:    s.user.ID,
		AccountID: s.account.ID,
		Amount:    decimal.NewNullDecimal(decimal.RequireFromString("19.99")),
	})
	s.Require().NoError(err)

	s.Equal(models.KindExpense, updated.Kind)
	s.True(updated.Amount.Equal(decimal.RequireFromString("19.99")))
	s.True(updated.TxnDate.Equal(date))
	s.Equal(sql.NullInt64{Int64: int64(categoryID), Valid: true}, updated.CategoryID)
	s.Equal(sql.NullString{String: description, Valid: true}, updated.Description)
	s.assertInvariant(s.account.ID)
}

func (s *suiteCoordinatorTester) TestUpdateCrossAccountRejected() {
	other := s.seedAccountWithBalance(s.user.ID, "50")

	entry, err := s.coordinator.CreateEntry(context.Background(), s.createParams(models.KindExpense, "10"))
	s.Require().NoError(err)

	_, err = s.coordinator.UpdateEntry(context.Background(), ledger.UpdateEntryParams{
		ID:        entry.ID,
		UserID:    s.user.ID,
		AccountID: other.ID,
		Amount:    decimal.NewNullDecimal(decimal.NewFromInt(20)),
	})
	s.ErrorIs(err, ledger.ErrUnsupportedOperation)

	first, _ := s.store.Account(s.account.ID)
	second, _ := s.store.Account(other.ID)
	s.True(first.Balance.Equal(decimal.NewFromInt(-10)))
	s.True(second.Balance.Equal(decimal.NewFromInt(50)))
}

func (s *suiteCoordinatorTester) TestUpdateForeignOwner() {
	entry, err := s.coordinator.CreateEntry(context.Background(), s.createParams(models.KindExpense, "10"))
	s.Require().NoError(err)

	_, err = s.coordinator.UpdateEntry(context.Background(), ledger.UpdateEntryParams{
		ID:        entry.ID,
		UserID:    2,
		AccountID: s.account.ID,
		Amount:    decimal.NewNullDecimal(decimal.NewFromInt(20)),
	})
	s.ErrorIs(err, ledger.ErrForbidden)
	s.assertInvariant(s.account.ID)
}

func (s *suiteCoordinatorTester) TestUpdateMissingEntry() {
	_, err := s.coordinator.UpdateEntry(context.Background(), ledger.UpdateEntryParams{
		ID:        999,
		UserID:    s.user.ID,
		AccountID: s.account.ID,
	})
	s.ErrorIs(err, ledger.ErrNotFound)
}

// Delete reversal: a 200 balance with one INCOME 50 entry settles at 150
// after the delete.
func (s *suiteCoordinatorTester) TestDeleteReversal() {
	account := s.seedAccountWithBalance(s.user.ID, "150")

	params := s.createParams(models.KindIncome, "50")
	params.AccountID = account.ID

	entry, err := s.coordinator.CreateEntry(context.Background(), params)
	s.Require().NoError(err)

	current, _ := s.store.Account(account.ID)
	s.True(current.Balance.Equal(decimal.NewFromInt(200)))

	s.Require().NoError(s.coordinator.DeleteEntry(context.Background(), entry.ID))

	current, _ = s.store.Account(account.ID)
	s.True(current.Balance.Equal(decimal.NewFromInt(150)))
	s.Empty(s.store.EntriesByAccount(account.ID))
	s.assertInvariant(account.ID)
}

func (s *suiteCoordinatorTester) TestDeleteMissingEntry() {
	s.ErrorIs(s.coordinator.DeleteEntry(context.Background(), 999), ledger.ErrNotFound)
}

// Two concurrent creates against the same account must serialize through the
// account lock: INCOME 10 and EXPENSE 4 on a zero balance always settle at 6.
func (s *suiteCoordinatorTester) TestConcurrentCreatesSerialize() {
	var wg sync.WaitGroup
	errs := make(chan error, 2)

	for _, params := range []ledger.CreateEntryParams{
		s.createParams(models.KindIncome, "10"),
		s.createParams(models.KindExpense, "4"),
	} {
		wg.Add(1)
		go func(p ledger.CreateEntryParams) {
			defer wg.Done()
			_, err := s.coordinator.CreateEntry(context.Background(), p)
			errs <- err
		}(params)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	account, _ := s.store.Account(s.account.ID)
	s.True(account.Balance.Equal(decimal.NewFromInt(6)), "balance %s != 6", account.Balance)
	s.assertInvariant(s.account.ID)
}

type ScenarioEntry struct {
	Name    string   `yaml:"name"`
	Initial string   `yaml:"initial"`
	Ops     []string `yaml:"ops"`
	Balance string   `yaml:"balance"`
}

// TestScenarios replays op sequences from testdata/scenarios.yml and checks
// the final balance and the invariant after every operation.
func (s *suiteCoordinatorTester) TestScenarios() {
	buf, err := ioutil.ReadFile("testdata/scenarios.yml")
	s.Require().NoError(err)

	var scenarios []ScenarioEntry
	s.Require().NoError(yaml.Unmarshal(buf, &scenarios))

	for _, scenario := range scenarios {
		s.Run(scenario.Name, func() {
			s.SetupTest()

			account := s.seedAccountWithBalance(s.user.ID, scenario.Initial)

			var created []uint64
			for _, op := range scenario.Ops {
				fields := strings.Split(op, ",")
				for i := range fields {
					fields[i] = strings.TrimSpace(fields[i])
				}

				switch fields[0] {
				case "create":
					params := s.createParams(models.TransactionKind(fields[1]), fields[2])
					params.AccountID = account.ID

					entry, err := s.coordinator.CreateEntry(context.Background(), params)
					s.Require().NoError(err)
					created = append(created, entry.ID)
				case "update":
					index, _ := strconv.Atoi(fields[1])
					kind := models.TransactionKind(fields[2])

					_, err := s.coordinator.UpdateEntry(context.Background(), ledger.UpdateEntryParams{
						ID:        created[index-1],
						UserID:    s.user.ID,
						AccountID: account.ID,
						Kind:      &kind,
						Amount:    decimal.NewNullDecimal(decimal.RequireFromString(fields[3])),
					})
					s.Require().NoError(err)
				case "delete":
					index, _ := strconv.Atoi(fields[1])
					s.Require().NoError(s.coordinator.DeleteEntry(context.Background(), created[index-1]))
				}

				s.assertInvariant(account.ID)
			}

			final, _ := s.store.Account(account.ID)
			expected := decimal.RequireFromString(scenario.Balance)
			s.True(final.Balance.Equal(expected), "balance %s != %s", final.Balance, expected)
		})
	}
}

func mustDate(value string) time.Time {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return date
}
