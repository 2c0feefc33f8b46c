package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"

	catalogerrors "smartparking/internal/catalog/errors"
	"smartparking/internal/catalog/repository"
	"smartparking/pkg/config"
	apperrors "smartparking/pkg/errors"
	"smartparking/pkg/model"
)

// CatalogService is the read-only inventory of sites and their slots. It carries
// no availability logic.
type CatalogService interface {
	ListSites(ctx context.Context) ([]*model.Site, error)
	GetSite(ctx context.Context, siteID string) (*model.Site, error)
	ListSlots(ctx context.Context, siteID string) ([]model.FloorSlots, error)
	Slots(ctx context.Context, siteID string) ([]model.Slot, error)
	GetSlot(ctx context.Context, siteID, slotNumber string) (*model.Slot, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	cfg  *config.Config
}

func NewCatalogService(repo repository.CatalogRepository, cfg *config.Config) CatalogService {
	return &catalogService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *catalogService) ListSites(ctx context.Context) ([]*model.Site, error) {
	sites, err := s.repo.FindSites(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list sites", "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve sites")
	}
	if sites == nil {
		sites = []*model.Site{}
	}
	return sites, nil
}

func (s *catalogService) GetSite(ctx context.Context, siteID string) (*model.Site, error) {
	if siteID == "" {
		return nil, apperrors.InvalidInput("Site ID cannot be empty")
	}

	site, err := s.repo.FindSiteByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrSiteNotFound) {
			return nil, apperrors.NotFoundWithID("Site", siteID)
		}
		s.cfg.Log.Error("Failed to get site", "site_id", siteID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve site")
	}
	return site, nil
}

// Slots returns every slot of the site ordered by floor and label.
func (s *catalogService) Slots(ctx context.Context, siteID string) ([]model.Slot, error) {
	if _, err := s.GetSite(ctx, siteID); err != nil {
		return nil, err
	}

	found, err := s.repo.FindSlotsBySite(ctx, siteID)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "site_id", siteID, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve slots")
	}

	slots := make([]model.Slot, 0, len(found))
	for _, slot := range found {
		if slot != nil {
			slots = append(slots, *slot)
		}
	}
	sortSlots(slots)
	return slots, nil
}

func (s *catalogService) ListSlots(ctx context.Context, siteID string) ([]model.FloorSlots, error) {
	slots, err := s.Slots(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return GroupByFloor(slots), nil
}

func (s *catalogService) GetSlot(ctx context.Context, siteID, slotNumber string) (*model.Slot, error) {
	if siteID == "" || slotNumber == "" {
		return nil, apperrors.InvalidInput("Site ID and slot number are required")
	}

	slot, err := s.repo.FindSlot(ctx, siteID, slotNumber)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrSlotNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", siteID+"/"+slotNumber)
		}
		s.cfg.Log.Error("Failed to get slot", "site_id", siteID, "slot_number", slotNumber, "error", err)
		return nil, apperrors.FromStorage(err, "Failed to retrieve slot")
	}
	return slot, nil
}

// GroupByFloor buckets already sorted slots by floor, lowest floor first.
func GroupByFloor(slots []model.Slot) []model.FloorSlots {
	groups := []model.FloorSlots{}
	for _, slot := range slots {
		if n := len(groups); n > 0 && groups[n-1].Floor == slot.Floor {
			groups[n-1].Slots = append(groups[n-1].Slots, slot)
			continue
		}
		groups = append(groups, model.FloorSlots{Floor: slot.Floor, Slots: []model.Slot{slot}})
	}
	return groups
}

// sortSlots orders by floor, then by label with numeric suffixes compared as
// numbers so A2 comes before A10.
func sortSlots(slots []model.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Floor != slots[j].Floor {
			return slots[i].Floor < slots[j].Floor
		}
		return labelLess(slots[i].SlotNumber, slots[j].SlotNumber)
	})
}

func labelLess(a, b string) bool {
	pa, na := splitLabel(a)
	pb, nb := splitLabel(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitLabel(label string) (string, int) {
	i := strings.LastIndexFunc(label, func(r rune) bool { return !unicode.IsDigit(r) })
	prefix, digits := label[:i+1], label[i+1:]
	n, err := strconv.Atoi(digits)
	if err != nil {
		return label, -1
	}
	return prefix, n
}
