package services

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

// LayoutService owns the floor plan: tables, static items and walls,
// scoped by room. Saving a layout reconciles against stored state
// instead of blind delete-then-insert so reservations survive edits.
type LayoutService struct {
	DB *gorm.DB
}

func NewLayoutService(db *gorm.DB) *LayoutService {
	return &LayoutService{DB: db}
}

// Layout is the combined floor plan of one room.
type Layout struct {
	Tables      []models.Table      `json:"tables"`
	StaticItems []models.StaticItem `json:"static_items"`
	Walls       []models.Wall       `json:"walls"`
}

// TableInput is one submitted table. A non-empty ID matching an
// existing active table in the room means "update", otherwise "create".
type TableInput struct {
	ID          string `json:"id"`
	TypeID      uint   `json:"type_id" binding:"required"`
	TableNumber int    `json:"table_number"`
	MaxGuests   int    `json:"max_guests" binding:"required"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Rotation    int    `json:"rotation"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
}

type StaticItemInput struct {
	Type     string `json:"type" binding:"required"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
}

type WallInput struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
	Length   int    `json:"length" binding:"required"`
}

// LayoutInput is a full layout submission.
type LayoutInput struct {
	Tables      []TableInput      `json:"tables"`
	StaticItems []StaticItemInput `json:"static_items"`
	Walls       []WallInput       `json:"walls"`
}

// resolveRoomID keeps the original single-room convenience: default to
// the room of the first active table, or room 1 when none exist.
// Migration concern, isolated here on purpose.
func (s *LayoutService) resolveRoomID(tx *gorm.DB, roomID uint) (uint, error) {
	if roomID != 0 {
		return roomID, nil
	}
	var table models.Table
	err := tx.Where("is_active = ?", true).Limit(1).First(&table).Error
	if err == nil {
		return table.RoomID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}
	return 1, nil
}

// Get returns the current layout of a room. withTypes embeds the table
// type rows for the enhanced endpoint.
func (s *LayoutService) Get(roomID uint, withTypes bool) (*Layout, error) {
	resolved, err := s.resolveRoomID(s.DB, roomID)
	if err != nil {
		return nil, err
	}
	return s.fetch(s.DB, resolved, withTypes)
}

func (s *LayoutService) fetch(tx *gorm.DB, roomID uint, withTypes bool) (*Layout, error) {
	layout := &Layout{
		Tables:      []models.Table{},
		StaticItems: []models.StaticItem{},
		Walls:       []models.Wall{},
	}

	query := tx.Where("room_id = ? AND is_active = ?", roomID, true).Order("table_number")
	if withTypes {
		query = query.Preload("TableType")
	}
	if err := query.Find(&layout.Tables).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("room_id = ?", roomID).Find(&layout.StaticItems).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("room_id = ?", roomID).Find(&layout.Walls).Error; err != nil {
		return nil, err
	}
	return layout, nil
}

// Save replaces a room's layout in one transaction:
//
//  1. diff submitted tables against stored active ones into
//     update / create / retire sets,
//  2. persist updates and creates,
//  3. migrate reservations off retiring tables (first surviving table
//     that fits the party and has the slot free, else the largest
//     survivor with a free slot, else delete),
//  4. soft-deactivate retired tables,
//  5. hard-replace static items and walls.
//
// Submitting the current layout back is a no-op on the active table set.
func (s *LayoutService) Save(input LayoutInput, roomID uint) (*Layout, error) {
	var resolved uint

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if resolved, err = s.resolveRoomID(tx, roomID); err != nil {
			return err
		}

		var stored []models.Table
		if err := tx.Where("room_id = ? AND is_active = ?", resolved, true).Find(&stored).Error; err != nil {
			return err
		}
		existing := make(map[string]*models.Table, len(stored))
		for i := range stored {
			existing[stored[i].ID] = &stored[i]
		}

		// Survivors in submission order; migration prefers earlier ones.
		survivors := make([]*models.Table, 0, len(input.Tables))
		kept := make(map[string]bool)

		for _, in := range input.Tables {
			if in.ID != "" && existing[in.ID] != nil {
				table := existing[in.ID]
				table.TypeID = in.TypeID
				table.TableNumber = in.TableNumber
				table.MaxGuests = in.MaxGuests
				table.X = in.X
				table.Y = in.Y
				table.Rotation = in.Rotation
				if in.Width != nil {
					table.Width = in.Width
				}
				if in.Height != nil {
					table.Height = in.Height
				}
				if err := tx.Save(table).Error; err != nil {
					return err
				}
				kept[table.ID] = true
				survivors = append(survivors, table)
				continue
			}

			table := &models.Table{
				TypeID:      in.TypeID,
				TableNumber: in.TableNumber,
				MaxGuests:   in.MaxGuests,
				X:           in.X,
				Y:           in.Y,
				Rotation:    in.Rotation,
				Width:       in.Width,
				Height:      in.Height,
				RoomID:      resolved,
				IsActive:    true,
			}
			if err := tx.Create(table).Error; err != nil {
				return err
			}
			survivors = append(survivors, table)
		}

		var retiring []*models.Table
		for id, table := range existing {
			if !kept[id] {
				retiring = append(retiring, table)
			}
		}

		if err := s.migrateReservations(tx, retiring, survivors); err != nil {
			return err
		}

		for _, table := range retiring {
			table.IsActive = false
			if err := tx.Save(table).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("room_id = ?", resolved).Delete(&models.StaticItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", resolved).Delete(&models.Wall{}).Error; err != nil {
			return err
		}

		for _, in := range input.StaticItems {
			item := models.StaticItem{Type: in.Type, X: in.X, Y: in.Y, Rotation: in.Rotation, RoomID: resolved}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		for _, in := range input.Walls {
			wall := models.Wall{X: in.X, Y: in.Y, Rotation: in.Rotation, Length: in.Length, RoomID: resolved}
			if err := tx.Create(&wall).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.fetch(s.DB, resolved, false)
}

func slotKey(tableID, date, timeStr string) string {
	return tableID + "|" + date + "|" + timeStr
}

// migrateReservations moves every reservation pointing at a retiring
// table onto a survivor: the first one (in submission order) with
// enough seats and a free slot, else the largest survivor whose slot
// is free, else the reservation is deleted because it has nowhere to
// go. Slot occupancy mirrors the unique index on
// (table_id, reservation_date, reservation_time); assigning into a
// taken slot would abort the whole transaction.
func (s *LayoutService) migrateReservations(tx *gorm.DB, retiring, survivors []*models.Table) error {
	if len(retiring) == 0 {
		return nil
	}

	occupied := make(map[string]bool)
	if len(survivors) > 0 {
		ids := make([]string, len(survivors))
		for i, table := range survivors {
			ids[i] = table.ID
		}
		var existing []models.Reservation
		if err := tx.Where("table_id IN ?", ids).Find(&existing).Error; err != nil {
			return err
		}
		for _, r := range existing {
			occupied[slotKey(r.TableID, r.ReservationDate, r.ReservationTime)] = true
		}
	}

	ranked := make([]*models.Table, len(survivors))
	copy(ranked, survivors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MaxGuests > ranked[j].MaxGuests
	})

	for _, table := range retiring {
		var affected []models.Reservation
		if err := tx.Where("table_id = ?", table.ID).Find(&affected).Error; err != nil {
			return err
		}

		for _, reservation := range affected {
			target := pickMigrationTarget(survivors, ranked, occupied, reservation)
			if target == nil {
				utils.InfoLogger.Printf("Reservation %s deleted: no surviving table can take its slot", reservation.ID)
				if err := tx.Delete(&models.Reservation{}, "id = ?", reservation.ID).Error; err != nil {
					return err
				}
				continue
			}

			utils.InfoLogger.Printf("Reservation %s reassigned from table %s to table %s", reservation.ID, table.ID, target.ID)
			occupied[slotKey(target.ID, reservation.ReservationDate, reservation.ReservationTime)] = true
			reservation.TableID = target.ID
			if err := tx.Save(&reservation).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// pickMigrationTarget returns the first fitting survivor whose slot is
// free, else the biggest free survivor, else nil.
func pickMigrationTarget(survivors, ranked []*models.Table, occupied map[string]bool, r models.Reservation) *models.Table {
	for _, candidate := range survivors {
		if candidate.MaxGuests >= r.GuestsCount && !occupied[slotKey(candidate.ID, r.ReservationDate, r.ReservationTime)] {
			return candidate
		}
	}
	for _, candidate := range ranked {
		if !occupied[slotKey(candidate.ID, r.ReservationDate, r.ReservationTime)] {
			return candidate
		}
	}
	return nil
}

// AddTable inserts one table without touching the rest of the layout.
func (s *LayoutService) AddTable(input TableInput, roomID uint) (*models.Table, error) {
	resolved, err := s.resolveRoomID(s.DB, roomID)
	if err != nil {
		return nil, err
	}
	table := models.Table{
		TypeID:      input.TypeID,
		TableNumber: input.TableNumber,
		MaxGuests:   input.MaxGuests,
		X:           input.X,
		Y:           input.Y,
		Rotation:    input.Rotation,
		Width:       input.Width,
		Height:      input.Height,
		RoomID:      resolved,
		IsActive:    true,
	}
	if err := s.DB.Create(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *LayoutService) AddStaticItem(input StaticItemInput, roomID uint) (*models.StaticItem, error) {
	resolved, err := s.resolveRoomID(s.DB, roomID)
	if err != nil {
		return nil, err
	}
	item := models.StaticItem{Type: input.Type, X: input.X, Y: input.Y, Rotation: input.Rotation, RoomID: resolved}
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *LayoutService) AddWall(input WallInput, roomID uint) (*models.Wall, error) {
	resolved, err := s.resolveRoomID(s.DB, roomID)
	if err != nil {
		return nil, err
	}
	wall := models.Wall{X: input.X, Y: input.Y, Rotation: input.Rotation, Length: input.Length, RoomID: resolved}
	if err := s.DB.Create(&wall).Error; err != nil {
		return nil, err
	}
	return &wall, nil
}

// Clear deactivates a room's active tables and removes its static
// items and walls. Runs in one transaction and surfaces failures
// instead of reporting an empty layout regardless.
func (s *LayoutService) Clear(roomID uint) (*Layout, error) {
	var resolved uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if resolved, err = s.resolveRoomID(tx, roomID); err != nil {
			return err
		}
		if err := tx.Model(&models.Table{}).
			Where("room_id = ? AND is_active = ?", resolved, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivating tables: %w", err)
		}
		if err := tx.Where("room_id = ?", resolved).Delete(&models.StaticItem{}).Error; err != nil {
			return fmt.Errorf("deleting static items: %w", err)
		}
		if err := tx.Where("room_id = ?", resolved).Delete(&models.Wall{}).Error; err != nil {
			return fmt.Errorf("deleting walls: %w", err)
		}
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Printf("Clear layout failed for room %d: %v", resolved, err)
		return nil, err
	}
	return s.fetch(s.DB, resolved, false)
}
