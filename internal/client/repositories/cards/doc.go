// Package cards provides the client-side persistence layer for ID cards.
//
// The Repository interface is implemented by SQLiteRepository over a
// dbx.DBTX (either *sql.DB or *sql.Tx). Dates are stored as YYYY-MM-DD
// text, creation time as Unix milliseconds; listings are newest first.
//
// Typical Usage
//
//	repo := cards.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, card)
//	list, _ := repo.GetAll(ctx)
//	hits, _ := repo.Search(ctx, "mustermann")
//	_ = repo.DeleteByID(ctx, id)
package cards
