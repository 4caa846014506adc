package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"tripnest_backend/internal/models"
)

// InventoryLogRepository defines the interface for room inventory log database
// operations. The log is append-only: there are intentionally no update or
// delete methods.
type InventoryLogRepository interface {
	CreateLogEntry(executor SQLExecutor, entry *models.RoomInventoryLog) (int64, error)
	GetLogEntries(roomTypeID *int64, hotelID *int64, page, pageSize int) ([]models.RoomInventoryLog, int, error)
}

type inventoryLogRepository struct {
	db *sql.DB
}

// NewInventoryLogRepository creates a new instance of InventoryLogRepository.
func NewInventoryLogRepository(db *sql.DB) InventoryLogRepository {
	return &inventoryLogRepository{db: db}
}

func (r *inventoryLogRepository) CreateLogEntry(executor SQLExecutor, entry *models.RoomInventoryLog) (int64, error) {
	query := `INSERT INTO room_inventory_logs
	          (room_type_id, changed_by, old_available, new_available, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          RETURNING id, created_at`

	err := executor.QueryRow(query,
		entry.RoomTypeID, entry.ChangedBy, entry.OldAvailable, entry.NewAvailable, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("%w: creating inventory log entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *inventoryLogRepository) GetLogEntries(roomTypeID *int64, hotelID *int64, page, pageSize int) ([]models.RoomInventoryLog, int, error) {
	entries := []models.RoomInventoryLog{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    l.id, l.room_type_id, l.changed_by, l.old_available, l.new_available,
	    l.note, l.created_at,
	    rt.name AS room_type_name, rt.hotel_id,
	    u.full_name AS changed_by_name,
	    COUNT(*) OVER() AS total_count
	  FROM room_inventory_logs l
	  JOIN room_types rt ON l.room_type_id = rt.id
	  JOIN users u ON l.changed_by = u.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if roomTypeID != nil {
		conditions = append(conditions, fmt.Sprintf("l.room_type_id = $%d", argCount))
		args = append(args, *roomTypeID)
		argCount++
	}
	if hotelID != nil {
		conditions = append(conditions, fmt.Sprintf("rt.hotel_id = $%d", argCount))
		args = append(args, *hotelID)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY l.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting inventory log entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.RoomInventoryLog
		var roomType models.RoomType
		var changedBy models.User

		if err := rows.Scan(
			&entry.ID, &entry.RoomTypeID, &entry.ChangedBy, &entry.OldAvailable, &entry.NewAvailable,
			&entry.Note, &entry.CreatedAt,
			&roomType.Name, &roomType.HotelID,
			&changedBy.FullName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory log entry: %v", ErrDatabaseError, err)
		}

		roomType.ID = entry.RoomTypeID
		entry.RoomType = &roomType
		changedBy.ID = entry.ChangedBy
		entry.ChangedByUser = &changedBy

		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory log entries: %v", ErrDatabaseError, err)
	}

	return entries, totalCount, nil
}
