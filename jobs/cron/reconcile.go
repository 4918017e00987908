package cron

import (
	"github.com/jasonlvhit/gocron"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcileJob audits the balance invariant: for every account,
// balance == initial_balance + SUM(signed entry deltas). It only reports,
// repair is a manual operation.
type ReconcileJob struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

type driftRow struct {
	AccountID uint64
	Balance   decimal.Decimal
	Expected  decimal.Decimal
}

func (j *ReconcileJob) Process() {
	var rows []driftRow

	err := j.DB.Raw(`
		SELECT a.id AS account_id,
		       a.balance,
		       a.initial_balance + COALESCE(SUM(
		           CASE WHEN t.kind = 'INCOME' THEN t.amount ELSE -t.amount END
		       ), 0) AS expected
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id, a.balance, a.initial_balance
	`).Scan(&rows).Error

	if err != nil {
		j.Log.WithError(err).Error("reconcile: audit query failed")
		return
	}

	drifted := 0
	for _, row := range rows {
		if !row.Balance.Equal(row.Expected) {
			drifted++
			j.Log.WithFields(logrus.Fields{
				"account_id": row.AccountID,
				"balance":    row.Balance.String(),
				"expected":   row.Expected.String(),
				"drift":      row.Balance.Sub(row.Expected).String(),
			}).Error("reconcile: balance drift detected")
		}
	}

	j.Log.WithFields(logrus.Fields{
		"accounts": len(rows),
		"drifted":  drifted,
	}).Info("reconcile: audit finished")
}

// Start schedules the daily audit and blocks.
func Start(db *gorm.DB, log *logrus.Logger, at string) {
	job := &ReconcileJob{DB: db, Log: log}

	gocron.Every(1).Day().At(at).Do(job.Process)

	<-gocron.Start()
}
