// Package adapters はウォッチリストのPostgreSQL実装を提供します。
package adapters

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPortfolioName は自動作成されるポートフォリオの名前です。
const DefaultPortfolioName = "My Portfolio"

// PortfolioModel はportfoliosテーブルのGORMモデルです。ユーザーごとに1件です。
type PortfolioModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"size:100;not null;default:'My Portfolio'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName はGORM用のテーブル名を返します。
func (PortfolioModel) TableName() string { return "portfolios" }

// HoldingModel はholdingsテーブルのGORMモデルです。
// ウォッチリスト用途では数量1、取得価格0、取得日=登録日で作成します。
type HoldingModel struct {
	ID          uint            `gorm:"primaryKey"`
	PortfolioID uint            `gorm:"uniqueIndex:idx_holdings_portfolio_market_symbol;not null"`
	Market      string          `gorm:"uniqueIndex:idx_holdings_portfolio_market_symbol;size:2;not null"`
	Symbol      string          `gorm:"uniqueIndex:idx_holdings_portfolio_market_symbol;size:20;not null"`
	Name        string          `gorm:"size:255;not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	BuyPrice    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	BuyDate     time.Time       `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName はGORM用のテーブル名を返します。
func (HoldingModel) TableName() string { return "holdings" }

// Models はAutoMigrate対象のモデルを返します。
func Models() []any {
	return []any{&PortfolioModel{}, &HoldingModel{}}
}
