package mapper

import (
	"datacloud-analytics-be/internal/entity"
	"datacloud-analytics-be/internal/model"
)

type CompanyMapper struct{}

func NewCompanyMapper() *CompanyMapper {
	return &CompanyMapper{}
}

func (m *CompanyMapper) ToEntity(c *model.Company) *entity.Company {
	if c == nil {
		return nil
	}
	return &entity.Company{
		Id:        c.Id,
		LegalName: c.LegalName,
		TaxId:     c.TaxId,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CompanyMapper) ToModel(c *entity.Company) *model.Company {
	if c == nil {
		return nil
	}
	return &model.Company{
		Id:        c.Id,
		LegalName: c.LegalName,
		TaxId:     c.TaxId,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
