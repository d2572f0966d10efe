// Package graphql expone los casos de uso de la tienda como un esquema GraphQL (graphql-go).
//
// El Principal llega en el contexto (authz.WithPrincipal) y la cookie de sesión se
// comunica al transporte a través de Session.
package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/pkg/metrics"
)

// Resolver dependencias de los resolvers.
type Resolver struct {
	Auth     *auth.AuthUseCase
	Users    *usecase.UserUseCase
	Items    *usecase.ItemUseCase
	Carts    *usecase.CartUseCase
	Orders   *usecase.OrderUseCase
	Checkout *checkout.Service
	Metrics  *metrics.Metrics
	Log      zerolog.Logger
}

// Request cuerpo de una petición GraphQL.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// NewSchema construye el esquema con queries y mutations.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(),
		Mutation: r.mutationType(),
	})
}

// Execute ejecuta req sobre schema con ctx (que ya lleva el Principal).
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func (r *Resolver) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.resolve(r.me),
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.resolve(r.users),
			},
			"item": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"where": &graphql.ArgumentConfig{Type: graphql.NewNonNull(itemWhereUniqueInput)},
				},
				Resolve: r.resolve(r.item),
			},
			"items": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(itemType))),
				Args: graphql.FieldConfigArgument{
					"skip":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"first":   &graphql.ArgumentConfig{Type: graphql.Int},
					"orderBy": &graphql.ArgumentConfig{Type: itemOrderByEnum},
				},
				Resolve: r.resolve(r.items),
			},
			"itemsConnection": &graphql.Field{
				Type:    graphql.NewNonNull(itemConnectionType),
				Resolve: r.resolve(r.itemsConnection),
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolve(r.order),
			},
			"orders": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(orderType))),
				Resolve: r.resolve(r.orders),
			},
		},
	})
}

func (r *Resolver) mutationType() *graphql.Object {
	nonNullString := graphql.NewNonNull(graphql.String)
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: nonNullString},
					"name":     &graphql.ArgumentConfig{Type: nonNullString},
					"password": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: r.resolve(r.signup),
			},
			"signin": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: nonNullString},
					"password": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: r.resolve(r.signin),
			},
			"signout": &graphql.Field{
				Type:    successMessageType,
				Resolve: r.resolve(r.signout),
			},
			"requestReset": &graphql.Field{
				Type: successMessageType,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: r.resolve(r.requestReset),
			},
			"resetPassword": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"resetToken":      &graphql.ArgumentConfig{Type: nonNullString},
					"password":        &graphql.ArgumentConfig{Type: nonNullString},
					"confirmPassword": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: r.resolve(r.resetPassword),
			},
			"createItem": &graphql.Field{
				Type: graphql.NewNonNull(itemType),
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: nonNullString},
					"description": &graphql.ArgumentConfig{Type: nonNullString},
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"image":       &graphql.ArgumentConfig{Type: graphql.String},
					"largeImage":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolve(r.createItem),
			},
			"updateItem": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"price":       &graphql.ArgumentConfig{Type: graphql.Int},
					"image":       &graphql.ArgumentConfig{Type: graphql.String},
					"largeImage":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolve(r.updateItem),
			},
			"deleteItem": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolve(r.deleteItem),
			},
			"addToCart": &graphql.Field{
				Type: cartItemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolve(r.addToCart),
			},
			"removeFromCart": &graphql.Field{
				Type: cartItemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolve(r.removeFromCart),
			},
			"updatePermissions": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"userId":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"permissions": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(permissionEnum)))},
				},
				Resolve: r.resolve(r.updatePermissions),
			},
			"createOrder": &graphql.Field{
				Type: graphql.NewNonNull(orderType),
				Args: graphql.FieldConfigArgument{
					"token":  &graphql.ArgumentConfig{Type: nonNullString},
					"amount": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.resolve(r.createOrder),
			},
		},
	})
}

// resolve convierte los errores de dominio en *Error, registra los de store/internos
// y cuenta los de autenticación.
func (r *Resolver) resolve(fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		out, err := fn(p)
		if err == nil {
			return out, nil
		}
		apiErr := Classify(err)
		switch apiErr.Code {
		case CodeStore, CodeInternal, CodePaymentGateway:
			r.Log.Error().Err(err).Str("field", p.Info.FieldName).Str("code", apiErr.Code).Msg("error en resolver")
		case CodeUnauthenticated, CodeForbidden, CodeInvalidCredential, CodeInvalidOrExpiredToken:
			r.Metrics.AuthFailure(apiErr.Code)
		}
		return nil, apiErr
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	u, err := r.Users.Me(p.Context)
	if err != nil || u == nil {
		return nil, err
	}
	return u, nil
}

func (r *Resolver) users(p graphql.ResolveParams) (interface{}, error) {
	return r.Users.List(p.Context)
}

func (r *Resolver) item(p graphql.ResolveParams) (interface{}, error) {
	where, _ := p.Args["where"].(map[string]interface{})
	it, err := r.Items.GetByID(p.Context, argString(where, "id"))
	if err != nil || it == nil {
		return nil, err
	}
	return it, nil
}

func (r *Resolver) items(p graphql.ResolveParams) (interface{}, error) {
	in := dto.ItemListRequest{OrderBy: argString(p.Args, "orderBy")}
	in.Skip, _ = p.Args["skip"].(int)
	in.First, _ = p.Args["first"].(int)
	return r.Items.List(p.Context, in)
}

func (r *Resolver) itemsConnection(p graphql.ResolveParams) (interface{}, error) {
	return r.Items.Connection(p.Context)
}

func (r *Resolver) order(p graphql.ResolveParams) (interface{}, error) {
	return r.Orders.Get(p.Context, argString(p.Args, "id"))
}

func (r *Resolver) orders(p graphql.ResolveParams) (interface{}, error) {
	return r.Orders.List(p.Context)
}

// ── Mutations ─────────────────────────────────────────────────────────────────

func (r *Resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.Auth.Signup(p.Context, dto.SignupRequest{
		Email:    argString(p.Args, "email"),
		Name:     argString(p.Args, "name"),
		Password: argString(p.Args, "password"),
	})
	return r.withSession(p.Context, res, err)
}

func (r *Resolver) signin(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.Auth.Signin(p.Context, dto.SigninRequest{
		Email:    argString(p.Args, "email"),
		Password: argString(p.Args, "password"),
	})
	return r.withSession(p.Context, res, err)
}

func (r *Resolver) signout(p graphql.ResolveParams) (interface{}, error) {
	sessionFrom(p.Context).Clear()
	return r.Auth.Signout(p.Context), nil
}

func (r *Resolver) requestReset(p graphql.ResolveParams) (interface{}, error) {
	return r.Auth.RequestReset(p.Context, argString(p.Args, "email"))
}

func (r *Resolver) resetPassword(p graphql.ResolveParams) (interface{}, error) {
	res, err := r.Auth.ResetPassword(p.Context, dto.ResetPasswordRequest{
		ResetToken:      argString(p.Args, "resetToken"),
		Password:        argString(p.Args, "password"),
		ConfirmPassword: argString(p.Args, "confirmPassword"),
	})
	return r.withSession(p.Context, res, err)
}

// withSession entrega el token al transporte y devuelve sólo el usuario.
func (r *Resolver) withSession(ctx context.Context, res *dto.AuthResponse, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	sessionFrom(ctx).Issue(res.Token)
	return &res.User, nil
}

func (r *Resolver) createItem(p graphql.ResolveParams) (interface{}, error) {
	price, _ := p.Args["price"].(int)
	return r.Items.Create(p.Context, dto.CreateItemRequest{
		Title:       argString(p.Args, "title"),
		Description: argString(p.Args, "description"),
		Price:       int64(price),
		Image:       argString(p.Args, "image"),
		LargeImage:  argString(p.Args, "largeImage"),
	})
}

func (r *Resolver) updateItem(p graphql.ResolveParams) (interface{}, error) {
	in := dto.UpdateItemRequest{
		ID:          argString(p.Args, "id"),
		Title:       argOptString(p.Args, "title"),
		Description: argOptString(p.Args, "description"),
		Image:       argOptString(p.Args, "image"),
		LargeImage:  argOptString(p.Args, "largeImage"),
	}
	if price, ok := p.Args["price"].(int); ok {
		v := int64(price)
		in.Price = &v
	}
	return r.Items.Update(p.Context, in)
}

func (r *Resolver) deleteItem(p graphql.ResolveParams) (interface{}, error) {
	return r.Items.Delete(p.Context, argString(p.Args, "id"))
}

func (r *Resolver) addToCart(p graphql.ResolveParams) (interface{}, error) {
	return r.Carts.Add(p.Context, argString(p.Args, "id"))
}

func (r *Resolver) removeFromCart(p graphql.ResolveParams) (interface{}, error) {
	return r.Carts.Remove(p.Context, argString(p.Args, "id"))
}

func (r *Resolver) updatePermissions(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["permissions"].([]interface{})
	perms := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			perms = append(perms, s)
		}
	}
	return r.Auth.UpdatePermissions(p.Context, dto.UpdatePermissionsRequest{
		UserID:      argString(p.Args, "userId"),
		Permissions: perms,
	})
}

func (r *Resolver) createOrder(p graphql.ResolveParams) (interface{}, error) {
	in := dto.CreateOrderRequest{Token: argString(p.Args, "token")}
	if amount, ok := p.Args["amount"].(int); ok {
		v := int64(amount)
		in.ClientAmount = &v
	}
	return r.Checkout.CreateOrder(p.Context, in)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func argString(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func argOptString(args map[string]interface{}, name string) *string {
	if s, ok := args[name].(string); ok {
		return &s
	}
	return nil
}
