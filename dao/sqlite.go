package dao

import (
	"context"
	"encoding/csv"
	"io"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"city311/model"
)

// TicketStore persists finalized tickets in sqlite. Save upserts by
// ticket id: re-saving the same id overwrites rather than duplicates.
type TicketStore struct {
	db *gorm.DB
}

func NewTicketStore(path string) (*TicketStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Ticket{}); err != nil {
		return nil, err
	}
	return &TicketStore{db: db}, nil
}

func (s *TicketStore) Save(ctx context.Context, ticket *model.Ticket) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(ticket).Error
}

func (s *TicketStore) Get(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := s.db.WithContext(ctx).First(&ticket, "ticket_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) List(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&tickets).Error
	return tickets, err
}

// ExportCSV writes one row per ticket: id, service, city, state,
// JSON payload, creation time at seconds precision.
func (s *TicketStore) ExportCSV(ctx context.Context, w io.Writer) error {
	tickets, err := s.List(ctx)
	if err != nil {
		return err
	}
	return WriteTicketCSV(w, tickets)
}

func WriteTicketCSV(w io.Writer, tickets []model.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticket_id", "service", "city", "state", "payload", "created_at"}); err != nil {
		return err
	}
	for _, t := range tickets {
		row := []string{
			t.ID,
			t.Service,
			t.City,
			t.State,
			t.Payload,
			t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
