package warehouse

// Star schema DDL. Surrogate ids for lazily populated dimensions come
// from sequences so they stay stable across runs; natural-key tables use
// the key itself as primary key. Facts reference dimensions by id.

const sequences = `
CREATE SEQUENCE IF NOT EXISTS seq_event_type_id START 1;
CREATE SEQUENCE IF NOT EXISTS seq_customer_id START 1;
CREATE SEQUENCE IF NOT EXISTS seq_product_id START 1;
`

const dimEventTypesSchema = `
CREATE TABLE IF NOT EXISTS dim_event_types (
    event_type_id INTEGER PRIMARY KEY DEFAULT nextval('seq_event_type_id'),
    event VARCHAR NOT NULL UNIQUE
);
`

const dimDatesSchema = `
CREATE TABLE IF NOT EXISTS dim_dates (
    date_key VARCHAR PRIMARY KEY,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    day INTEGER NOT NULL
);
`

const dimUsersSchema = `
CREATE TABLE IF NOT EXISTS dim_users (
    user_id VARCHAR PRIMARY KEY,
    country VARCHAR,
    signup_source VARCHAR
);
`

const dimCustomersSchema = `
CREATE TABLE IF NOT EXISTS dim_customers (
    customer_id INTEGER PRIMARY KEY DEFAULT nextval('seq_customer_id'),
    customer VARCHAR NOT NULL UNIQUE
);
`

const dimProductsSchema = `
CREATE TABLE IF NOT EXISTS dim_products (
    product_id INTEGER PRIMARY KEY DEFAULT nextval('seq_product_id'),
    sku VARCHAR NOT NULL UNIQUE
);
`

const factEventsSchema = `
CREATE TABLE IF NOT EXISTS fact_events (
    event_id VARCHAR PRIMARY KEY,
    ts TIMESTAMP NOT NULL,
    user_id VARCHAR,
    event_type_id INTEGER NOT NULL,
    page VARCHAR,
    amount DOUBLE,
    event_date VARCHAR NOT NULL,
    event_hour INTEGER NOT NULL
);
`

const factEventsIndexes = `
CREATE INDEX IF NOT EXISTS idx_fact_events_date ON fact_events(event_date);
CREATE INDEX IF NOT EXISTS idx_fact_events_user ON fact_events(user_id);
`

const factIntlSalesSchema = `
CREATE TABLE IF NOT EXISTS fact_intl_sales (
    sale_id VARCHAR PRIMARY KEY,
    ts TIMESTAMP NOT NULL,
    date_key VARCHAR NOT NULL,
    customer_id INTEGER NOT NULL,
    product_id INTEGER NOT NULL,
    pcs INTEGER,
    rate DOUBLE,
    gross_amt DOUBLE NOT NULL,
    currency VARCHAR,
    source_dataset VARCHAR
);
`

const factIntlSalesIndexes = `
CREATE INDEX IF NOT EXISTS idx_fact_intl_sales_date ON fact_intl_sales(date_key);
`
