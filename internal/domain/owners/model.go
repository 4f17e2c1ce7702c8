package owners

// Owner representa al cuidador de una o más mascotas.
// El nombre funciona como clave natural (no hay ID sustituto en la variante por configuración).
type Owner struct {
	Name string
	Age  int
}
