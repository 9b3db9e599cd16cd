package service

import "errors"

// Domain errors. Handlers translate these to HTTP status codes; the messages
// are user-facing and stay in Spanish.
var (
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrProductInactive    = errors.New("el producto no esta disponible")
	ErrCategoryCycle      = errors.New("la categoria no puede ser descendiente de si misma")
	ErrSlugTaken          = errors.New("ya existe una categoria con ese nombre")
	ErrEmailTaken         = errors.New("el email ya esta registrado")
	ErrInvalidCredentials = errors.New("credenciales invalidas")
	ErrForbidden          = errors.New("no tiene permisos sobre este recurso")
	ErrEmptyCart          = errors.New("el carrito esta vacio")
)
