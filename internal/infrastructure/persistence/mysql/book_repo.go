package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/pagination"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有方法通过dbFrom(ctx)取DB,可参与TxManager开启的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		Title:      b.Title,
		Author:     b.Author,
		Genre:      b.Genre,
		CoverImage: b.CoverImage,
		CreatedBy:  b.CreatedBy,
	}

	// 2. 插入数据库
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, err.Error())
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// List 分页查询图书列表
// 1. search在书名、作者、类型中模糊匹配(OR)
// 2. author、genre为字段过滤,与search为AND关系
// 3. 排序字段来自白名单,未知字段按创建时间
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := dbFrom(ctx, r.db).Model(&BookModel{})

	if params.Search != "" {
		pattern := containsPattern(params.Search)
		query = query.Where(
			"("+likeClause("title")+" OR "+likeClause("author")+" OR "+likeClause("genre")+")",
			pattern, pattern, pattern,
		)
	}
	if params.Author != "" {
		query = query.Where(likeClause("author"), containsPattern(params.Author))
	}
	if params.Genre != "" {
		query = query.Where(likeClause("genre"), containsPattern(params.Genre))
	}
	query = query.Session(&gorm.Session{})

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 排序和分页
	page := pagination.New(params.Page, params.Limit, 10)
	sort := pagination.NewSort(params.OrderBy, params.Order, book.SortFields, book.DefaultSortField)

	err := query.
		Preload("Creator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "phone_number")
		}).
		Order(sort.Clause()).
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// LockByID 悲观锁查询图书
// SELECT ... FOR UPDATE锁定行,同一本书的评分重算因此串行执行
// 注意:SQLite不支持行锁,方言会忽略FOR子句(SQLite本身单写者)
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// UpdateRating 整体替换评分统计
// 调用方须先LockByID确认图书存在（值未变化时MySQL的RowsAffected为0）
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, averageRating *float64, reviewsCount int64) error {
	result := dbFrom(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": averageRating,
			"reviews_count":  reviewsCount,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书评分失败")
	}
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Genre:         model.Genre,
		CoverImage:    model.CoverImage,
		AverageRating: model.AverageRating,
		ReviewsCount:  model.ReviewsCount,
		CreatedBy:     model.CreatedBy,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.Creator != nil {
		b.Creator = &book.Creator{
			ID:          model.Creator.ID,
			Name:        model.Creator.Name,
			Email:       model.Creator.Email,
			PhoneNumber: model.Creator.PhoneNumber,
		}
	}
	return b
}
