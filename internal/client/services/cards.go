package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/client/repositories/cards"
	"github.com/google/uuid"
)

// ExpiringWindow is how far ahead CardStats looks for expiring cards.
const ExpiringWindow = 30 * 24 * time.Hour

type CardService struct {
	repo cards.Repository
	now  func() time.Time
}

func NewCardService(repo cards.Repository, now func() time.Time) *CardService {
	if now == nil {
		now = time.Now
	}
	return &CardService{repo: repo, now: now}
}

// Draft returns a new card with the form defaults applied.
func (s *CardService) Draft() *models.Card {
	return models.NewCard(s.now())
}

// Create validates c and stores it. Missing ID and creation time are filled.
func (s *CardService) Create(ctx context.Context, c *models.Card) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Position = strings.TrimSpace(c.Position)
	c.Department = strings.TrimSpace(c.Department)
	c.EmployeeID = strings.TrimSpace(c.EmployeeID)

	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return fmt.Errorf("saving error: %w", err)
	}
	return nil
}

func (s *CardService) List(ctx context.Context) ([]*models.Card, error) {
	return s.repo.GetAll(ctx)
}

func (s *CardService) Search(ctx context.Context, q string) ([]*models.Card, error) {
	return s.repo.Search(ctx, q)
}

func (s *CardService) Get(ctx context.Context, id string) (*models.Card, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CardService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// DepartmentCount is one row of the department breakdown.
type DepartmentCount struct {
	Department string
	Count      int
}

type CardStats struct {
	Total            int
	Active           int
	CreatedThisMonth int
	ExpiringSoon     int
	Departments      []DepartmentCount
}

// ActiveShare is the percentage of active cards, rounded.
func (s CardStats) ActiveShare() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Active*100 + s.Total/2) / s.Total
}

// Stats summarizes the stored cards at the current time.
func (s *CardService) Stats(ctx context.Context) (CardStats, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return CardStats{}, err
	}

	now := s.now()
	y, m, _ := now.Date()
	byDept := map[string]int{}

	st := CardStats{Total: len(all)}
	for _, c := range all {
		if !c.Expired(now) {
			st.Active++
		}
		if cy, cm, _ := c.CreatedAt.In(now.Location()).Date(); cy == y && cm == m {
			st.CreatedThisMonth++
		}
		if c.ExpiresWithin(now, ExpiringWindow) {
			st.ExpiringSoon++
		}
		byDept[c.Department]++
	}

	for d, n := range byDept {
		st.Departments = append(st.Departments, DepartmentCount{Department: d, Count: n})
	}
	sort.Slice(st.Departments, func(i, j int) bool {
		if st.Departments[i].Count != st.Departments[j].Count {
			return st.Departments[i].Count > st.Departments[j].Count
		}
		return st.Departments[i].Department < st.Departments[j].Department
	})
	return st, nil
}
