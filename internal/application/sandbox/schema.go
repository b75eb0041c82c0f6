package sandbox

// Colecciones expuestas por el sandbox.
const (
	Categories = "categories"
	Products   = "products"
	Customers  = "customers"
	StaffUsers = "usuarias"
	Orders     = "orders"
	OrderItems = "order-items"
)

// PageSize tamaño de página de los listados paginados.
const PageSize = 20

type kind int

const (
	kindString kind = iota
	kindEmail
	kindInt
	kindDecimal
	kindBool
	kindRef
	kindDate
	kindChoice
	kindFile
)

type field struct {
	name      string
	kind      kind
	required  bool
	unique    bool
	nonNeg    bool
	choices   []string
	ref       string // colección referenciada (kindRef)
	def       any    // valor al crear si no viene
	writeOnly bool
}

// rangeFilter filtro ?param=valor contra un campo con comparación numérica o de fecha.
type rangeFilter struct {
	param string
	field string
	min   bool // true: campo >= valor; false: campo <= valor
}

type schema struct {
	resource   string
	fields     []field
	search     []string
	exact      []string // filtros ?campo=valor
	ranges     []rangeFilter
	ordering   []string
	order      string // orden por defecto
	paginated  bool
	timestamps bool
	media      string // subcarpeta de adjuntos
	export     *csvSpec
}

func (s *schema) field(name string) (field, bool) {
	for _, f := range s.fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

var schemas = map[string]*schema{
	Categories: {
		resource: Categories,
		fields: []field{
			{name: "name", kind: kindString, required: true, unique: true},
			{name: "description", kind: kindString, def: ""},
		},
		search:   []string{"name", "description"},
		ordering: []string{"id", "name"},
		order:    "name",
	},
	Products: {
		resource: Products,
		fields: []field{
			{name: "name", kind: kindString, required: true},
			{name: "category", kind: kindRef, ref: Categories},
			{name: "price", kind: kindDecimal, required: true, nonNeg: true},
			{name: "stock", kind: kindInt, nonNeg: true, def: int64(0)},
			{name: "size", kind: kindString},
			{name: "color", kind: kindString},
			{name: "description", kind: kindString},
			{name: "image", kind: kindFile},
		},
		search: []string{"name", "description"},
		exact:  []string{"category", "size", "color"},
		ranges: []rangeFilter{
			{param: "price_min", field: "price", min: true},
			{param: "price_max", field: "price"},
			{param: "stock_min", field: "stock", min: true},
		},
		ordering:   []string{"name", "price", "stock", "created_at"},
		order:      "-created_at",
		paginated:  true,
		timestamps: true,
		media:      "products",
		export: &csvSpec{
			filename: "productos.csv",
			header:   []string{"ID", "Nombre", "Talla", "Color", "Precio", "Stock", "ID Categoria", "Fecha Creacion"},
			columns:  []string{"id", "name", "size", "color", "price", "stock", "category", "created_at"},
		},
	},
	Customers: {
		resource: Customers,
		fields: []field{
			{name: "name", kind: kindString, required: true},
			{name: "email", kind: kindEmail, required: true, unique: true},
			{name: "phone", kind: kindString, def: ""},
		},
		search:     []string{"name", "email"},
		ordering:   []string{"name", "email", "created_at"},
		order:      "-created_at",
		paginated:  true,
		timestamps: true,
		export: &csvSpec{
			filename: "clientes.csv",
			header:   []string{"ID", "Nombre", "Correo Electronico", "Telefono", "Fecha Registro"},
			columns:  []string{"id", "name", "email", "phone", "created_at"},
		},
	},
	StaffUsers: {
		resource: StaffUsers,
		fields: []field{
			{name: "username", kind: kindString, required: true, unique: true},
			{name: "email", kind: kindEmail, required: true, unique: true},
			{name: "first_name", kind: kindString, def: ""},
			{name: "last_name", kind: kindString, def: ""},
			{name: "phone", kind: kindString},
			{name: "role", kind: kindChoice, choices: []string{"ADMIN", "EMPLOYEE", "MANAGER"}, def: "EMPLOYEE"},
			{name: "status", kind: kindChoice, choices: []string{"ACTIVE", "INACTIVE", "SUSPENDED"}, def: "ACTIVE"},
			{name: "is_active", kind: kindBool, def: true},
			{name: "hire_date", kind: kindDate},
			{name: "salary", kind: kindDecimal, nonNeg: true},
			{name: "address", kind: kindString},
			{name: "avatar", kind: kindFile},
		},
		search: []string{"first_name", "last_name", "username", "email"},
		exact:  []string{"role", "status", "is_active"},
		ranges: []rangeFilter{
			{param: "hire_date_from", field: "hire_date", min: true},
			{param: "hire_date_to", field: "hire_date"},
			{param: "salary_min", field: "salary", min: true},
			{param: "salary_max", field: "salary"},
		},
		ordering:   []string{"first_name", "last_name", "username", "created_at", "hire_date"},
		order:      "-created_at",
		paginated:  true,
		timestamps: true,
		media:      "avatars",
		export: &csvSpec{
			filename: "usuarias.csv",
			header: []string{"ID", "Username", "Nombre", "Apellido", "Email", "Teléfono",
				"Rol", "Estado", "Fecha Contratación", "Salario", "Activa", "Fecha Creación"},
			columns: []string{"id", "username", "first_name", "last_name", "email", "phone",
				"role", "status", "hire_date", "salary", "is_active", "created_at"},
		},
	},
	Orders: {
		resource: Orders,
		fields: []field{
			{name: "customer", kind: kindRef, ref: Customers, required: true},
			{name: "status", kind: kindChoice, choices: []string{"PENDIENTE", "PROCESANDO", "ENVIADO", "COMPLETADO", "CANCELADO"}, def: "PENDIENTE"},
		},
		exact: []string{"customer", "status"},
		ranges: []rangeFilter{
			{param: "order_date_from", field: "order_date", min: true},
			{param: "order_date_to", field: "order_date"},
			{param: "total_min", field: "total_amount", min: true},
			{param: "total_max", field: "total_amount"},
		},
		ordering:  []string{"order_date", "total_amount"},
		order:     "-order_date",
		paginated: true,
		export: &csvSpec{
			filename: "pedidos.csv",
			header:   []string{"ID Pedido", "ID Cliente", "Nombre Cliente", "Fecha Pedido"},
			columns:  []string{"id", "customer", "customer_name", "order_date"},
		},
	},
	OrderItems: {
		resource: OrderItems,
		fields: []field{
			{name: "order", kind: kindRef, ref: Orders, required: true},
			{name: "product", kind: kindRef, ref: Products, required: true},
			{name: "quantity", kind: kindInt, def: int64(1)},
			{name: "price", kind: kindDecimal, required: true, nonNeg: true},
		},
		exact:     []string{"order", "product"},
		ordering:  []string{"id"},
		order:     "id",
		paginated: true,
		export: &csvSpec{
			filename: "articulos_pedido.csv",
			header:   []string{"ID Item", "ID Pedido", "ID Producto", "Nombre Producto", "Cantidad"},
			columns:  []string{"id", "order", "product", "product_name", "quantity"},
		},
	},
}

// IsResource indica si name es una colección del sandbox.
func IsResource(name string) bool {
	_, ok := schemas[name]
	return ok
}

// Paginated indica si el listado de la colección usa el sobre paginado.
// Categorías responde con un array plano.
func Paginated(resource string) bool {
	s, ok := schemas[resource]
	return ok && s.paginated
}

// Exportable indica si la colección tiene export-csv.
func Exportable(resource string) bool {
	s, ok := schemas[resource]
	return ok && s.export != nil
}
