package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReminderRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reminder_run_duration_seconds",
			Help:    "Duration of a full reminder batch run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
	)

	ReminderUsersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_users_processed_count",
			Help: "Users processed by the reminder batch, by outcome",
		},
		[]string{"outcome"}, // outcome: sent, failed, skipped
	)

	ReminderEmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_emails_sent_count",
			Help: "Total consolidated reminder emails sent",
		},
	)

	ReminderLogRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_log_rows_written_count",
			Help: "Total reminder log rows inserted",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	MailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mail_send_duration_seconds",
			Help:    "Mail transport send duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"status"}, // status: success, failed
	)
)

// RecordRunDuration 记录批量任务耗时
func RecordRunDuration(duration time.Duration) {
	ReminderRunDuration.Observe(duration.Seconds())
}

// IncrementUsersProcessed 增加用户处理计数
func IncrementUsersProcessed(outcome string) {
	ReminderUsersProcessed.WithLabelValues(outcome).Inc()
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordMailSendDuration 记录邮件发送延迟
func RecordMailSendDuration(status string, duration time.Duration) {
	MailSendDuration.WithLabelValues(status).Observe(duration.Seconds())
}
