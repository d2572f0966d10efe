package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var permissionEnum = graphql.NewEnum(graphql.EnumConfig{
	Name:   "Permission",
	Values: permissionValues(),
})

func permissionValues() graphql.EnumValueConfigMap {
	values := graphql.EnumValueConfigMap{}
	for _, p := range entity.AllPermissions {
		values[string(p)] = &graphql.EnumValueConfig{Value: string(p)}
	}
	return values
}

var itemOrderByEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "ItemOrderByInput",
	Values: graphql.EnumValueConfigMap{
		repository.ItemOrderCreatedAtDesc: &graphql.EnumValueConfig{Value: repository.ItemOrderCreatedAtDesc},
		repository.ItemOrderCreatedAtAsc:  &graphql.EnumValueConfig{Value: repository.ItemOrderCreatedAtAsc},
		repository.ItemOrderPriceAsc:      &graphql.EnumValueConfig{Value: repository.ItemOrderPriceAsc},
		repository.ItemOrderPriceDesc:     &graphql.EnumValueConfig{Value: repository.ItemOrderPriceDesc},
	},
})

var itemWhereUniqueInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ItemWhereUniqueInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
	},
})

var successMessageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SuccessMessage",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.String},
	},
})

// Price en centavos.
var itemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Item",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"image":       &graphql.Field{Type: graphql.String},
		"largeImage":  &graphql.Field{Type: graphql.String},
		"userId":      &graphql.Field{Type: graphql.ID},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
		"updatedAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var aggregateItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AggregateItem",
	Fields: graphql.Fields{
		"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var itemConnectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ItemConnection",
	Fields: graphql.Fields{
		"aggregate": &graphql.Field{Type: graphql.NewNonNull(aggregateItemType)},
	},
})

// item es null si el producto fue eliminado después de agregarlo.
var cartItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartItem",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"quantity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"item":     &graphql.Field{Type: itemType},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"permissions": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(permissionEnum)))},
		"cart":        &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(cartItemType)))},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
		"updatedAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"image":       &graphql.Field{Type: graphql.String},
		"largeImage":  &graphql.Field{Type: graphql.String},
		"quantity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"items":          &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(orderItemType)))},
		"total":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"formattedTotal": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"charge":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"currency":       &graphql.Field{Type: graphql.String},
		"userId":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"createdAt":      &graphql.Field{Type: graphql.DateTime},
	},
})
