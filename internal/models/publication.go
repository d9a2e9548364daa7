package models

// PublicationType тип издания: журнал или газета.
type PublicationType string

const (
	// PublicationMagazine — журнал, ставка начисления баллов 10%.
	PublicationMagazine PublicationType = "MAGAZINE"
	// PublicationNewspaper — газета, ставка начисления баллов 20%.
	PublicationNewspaper PublicationType = "NEWSPAPER"
)

// Publication представляет издание каталога. Для ядра экономики баллов
// каталог доступен только на чтение: цена и периодичность копируются
// в подписку в момент покупки.
type Publication struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Type          PublicationType `json:"type"`
	Description   string          `json:"description,omitempty"`
	Price         float64         `json:"price"`           // Цена годовой подписки
	Image         string          `json:"image,omitempty"` // Ссылка на обложку
	IssuesPerYear int             `json:"issues_per_year"`
	City          string          `json:"city,omitempty"` // Город, только для газет
	Category      string          `json:"category,omitempty"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"review_count"`
	Featured      bool            `json:"featured"`
}
